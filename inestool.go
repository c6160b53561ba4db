// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-inestool.
//
// go-inestool is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-inestool is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-inestool.  If not, see <https://www.gnu.org/licenses/>.

// Package inestool inspects and corrects the iNES headers of NES ROM
// images. It scans images out of bare files and common archive formats,
// fingerprints them by the CRC32 of their payload, and reconciles each
// header against a Nestopia-style cartridge database, inserting or
// replacing headers in containers that support rewriting.
package inestool

import (
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/ZaparooProject/go-inestool/container"
	"github.com/ZaparooProject/go-inestool/ines"
	"github.com/ZaparooProject/go-inestool/nesdb"
)

// Action classifies the reconciliation verdict for one scanned image.
type Action int

const (
	// ActionNoHeaderUnknown means the image has no header and the
	// database has no entry for it, so nothing can be done.
	ActionNoHeaderUnknown Action = iota
	// ActionUnknown means the image has a header but no database
	// entry, so there is nothing to check it against.
	ActionUnknown
	// ActionInsert means a headerless image matched a database entry
	// and a header will be added.
	ActionInsert
	// ActionMatch means the existing header agrees with the database.
	ActionMatch
	// ActionReplace means the existing header disagrees with the
	// database and will be rewritten.
	ActionReplace
)

// Outcome reports what reconciliation decided for one image. Diff is
// populated only for ActionReplace.
type Outcome struct {
	Item   container.Item
	Action Action
	Diff   []ines.FieldDiff
}

// Reconciler compares scanned images against a reference database and
// produces the updates needed to bring their headers in line.
type Reconciler struct {
	db     *nesdb.DB
	dryRun bool
}

// NewReconciler returns a Reconciler backed by db. With dryRun set it
// still reports every verdict but never produces updates.
func NewReconciler(db *nesdb.DB, dryRun bool) *Reconciler {
	return &Reconciler{db: db, dryRun: dryRun}
}

// Reconcile decides what to do about one image. The returned update is
// nil when there is nothing to change or dry run is on; the outcome
// always reflects the decision.
func (r *Reconciler) Reconcile(item container.Item) (Outcome, *container.Update) {
	want, known := r.db.Lookup(item.CRC32)
	switch {
	case item.Header == nil && !known:
		return Outcome{Item: item, Action: ActionNoHeaderUnknown}, nil
	case !known:
		return Outcome{Item: item, Action: ActionUnknown}, nil
	case item.Header == nil:
		outcome := Outcome{Item: item, Action: ActionInsert}
		if r.dryRun {
			return outcome, nil
		}
		return outcome, &container.Update{
			Item:   item,
			Kind:   container.InsertHeader,
			Header: *want,
		}
	}

	diff := want.Diff(*item.Header)
	if len(diff) == 0 {
		return Outcome{Item: item, Action: ActionMatch}, nil
	}
	outcome := Outcome{Item: item, Action: ActionReplace, Diff: diff}
	if r.dryRun {
		return outcome, nil
	}
	return outcome, &container.Update{
		Item:   item,
		Kind:   container.ReplaceHeader,
		Header: *want,
	}
}

// Visitor receives each scanned image and returns an update to apply to
// its container, or nil to leave the image alone.
type Visitor func(container.Item) (*container.Update, error)

// Visit scans the images at each path, invoking visit for every one,
// then applies the requested updates to each container. Containers that
// cannot be rewritten log a warning and keep their updates unapplied. A
// failing path does not stop the remaining paths; the returned error
// joins the failures.
func Visit(paths []string, log hclog.Logger, visit Visitor) error {
	var errs []error
	for _, path := range paths {
		if err := visitOne(path, log, visit); err != nil {
			log.Error("can't process path", "path", path, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func visitOne(path string, log hclog.Logger, visit Visitor) error {
	cont := container.Open(path, log)

	var updates []container.Update
	err := cont.Walk(func(item container.Item) error {
		update, err := visit(item)
		if err != nil {
			return err
		}
		if update != nil {
			updates = append(updates, *update)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	updater, ok := cont.(container.Updater)
	if !ok {
		log.Warn("cannot update file of this type", "path", path)
		return nil
	}
	return updater.Apply(updates) //nolint:wrapcheck // Container errors carry the path already
}

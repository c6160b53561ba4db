package inestool

import (
	"strings"
	"testing"

	"github.com/ZaparooProject/go-inestool/container"
	"github.com/ZaparooProject/go-inestool/ines"
)

func TestFormatItem(t *testing.T) {
	hdr := ines.Header{
		PRGROM:    32768,
		PRGRAM:    8192,
		CHRROM:    8192,
		Mapper:    1,
		Mirroring: ines.MirrorVertical,
		TVSystem:  ines.TVNTSC,
		Battery:   true,
	}
	item := container.Item{Name: "game.nes", CRC32: "AABBCCDD", Header: &hdr}

	want := strings.Join([]string{
		"game.nes (AABBCCDD):",
		"\tPRG ROM         : 32 KiB",
		"\tPRG RAM         : 8 KiB",
		"\tCHR ROM         : 8 KiB",
		"\tMapper          : 1",
		"\tMirroring       : Vertical",
		"\tTV System       : NTSC",
		"\tHas NVRAM       : true",
		"\tHas Trainer     : false",
		"\tIs PlayChoice-10: false",
		"\tIs VS. UniSystem: false",
	}, "\n")

	if got := FormatItem(item); got != want {
		t.Errorf("FormatItem() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatItemCHRRAM(t *testing.T) {
	hdr := ines.Header{PRGROM: 131072, Mapper: 2}
	got := FormatItem(container.Item{Name: "a.nes", CRC32: "00000001", Header: &hdr})

	if !strings.Contains(got, "\tCHR ROM         : CHR RAM\n") {
		t.Errorf("FormatItem() = %q, want CHR RAM line", got)
	}
	if !strings.Contains(got, "\tPRG ROM         : 128 KiB\n") {
		t.Errorf("FormatItem() = %q, want 128 KiB line", got)
	}
}

func TestFormatItemNoHeader(t *testing.T) {
	item := container.Item{Name: "bare.nes", CRC32: "12345678"}

	want := "bare.nes (12345678): no header"
	if got := FormatItem(item); got != want {
		t.Errorf("FormatItem() = %q, want %q", got, want)
	}
}

func TestFormatOutcome(t *testing.T) {
	item := container.Item{Name: "game.nes", CRC32: "AABBCCDD"}

	tests := []struct {
		name    string
		outcome Outcome
		want    string
	}{
		{
			name:    "no header unknown",
			outcome: Outcome{Item: item, Action: ActionNoHeaderUnknown},
			want:    "game.nes (AABBCCDD): no header, not in database, cannot add header",
		},
		{
			name:    "unknown",
			outcome: Outcome{Item: item, Action: ActionUnknown},
			want:    "game.nes (AABBCCDD): not in database, skipping",
		},
		{
			name:    "insert",
			outcome: Outcome{Item: item, Action: ActionInsert},
			want:    "game.nes (AABBCCDD): no header, will add header",
		},
		{
			name:    "match",
			outcome: Outcome{Item: item, Action: ActionMatch},
			want:    "game.nes (AABBCCDD): header matches database",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatOutcome(tt.outcome); got != tt.want {
				t.Errorf("FormatOutcome() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatOutcomeReplace(t *testing.T) {
	want := ines.Header{PRGROM: 32768, CHRROM: 8192, Mapper: 1, TVSystem: ines.TVNTSC}
	got := want
	got.PRGROM = 16384
	got.TVSystem = ines.TVPAL

	outcome := Outcome{
		Item:   container.Item{Name: "game.nes", CRC32: "AABBCCDD", Header: &got},
		Action: ActionReplace,
		Diff:   want.Diff(got),
	}

	wantReport := strings.Join([]string{
		"game.nes (AABBCCDD): header differs from database, will update header",
		"\tPRG ROM: expected 32 KiB, read 16 KiB",
		"\tTV System: expected NTSC, read PAL",
	}, "\n")

	if gotReport := FormatOutcome(outcome); gotReport != wantReport {
		t.Errorf("FormatOutcome() =\n%s\nwant\n%s", gotReport, wantReport)
	}
}

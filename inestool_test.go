package inestool

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/gzip"

	"github.com/ZaparooProject/go-inestool/container"
	"github.com/ZaparooProject/go-inestool/ines"
	"github.com/ZaparooProject/go-inestool/nesdb"
)

// dbHeader is what the test database prescribes for its one entry.
var dbHeader = ines.Header{
	PRGROM:    32768,
	PRGRAM:    8192,
	CHRROM:    8192,
	Mapper:    1,
	Mirroring: ines.MirrorVertical,
	TVSystem:  ines.TVNTSC,
	Battery:   true,
}

// testDB builds a single-entry database prescribing dbHeader for crc.
func testDB(t *testing.T, crc string) *nesdb.DB {
	t.Helper()

	doc := `<database><game>
		<cartridge system="NES-NTSC" crc="` + crc + `">
			<board type="NES-SNROM" mapper="1">
				<prg size="32k"/>
				<chr size="8k"/>
				<wram size="8k" battery="1"/>
				<pad h="1"/>
			</board>
		</cartridge>
	</game></database>`

	db, err := nesdb.LoadReader(strings.NewReader(doc), hclog.NewNullLogger())
	if err != nil {
		t.Fatalf("load test database: %v", err)
	}
	return db
}

func TestReconcile(t *testing.T) {
	const knownCRC = "AABBCCDD"
	db := testDB(t, knownCRC)

	matching := dbHeader
	differing := dbHeader
	differing.PRGROM = 16384
	differing.TVSystem = ines.TVPAL

	tests := []struct {
		name       string
		item       container.Item
		wantAction Action
		wantUpdate bool
		wantKind   container.Kind
	}{
		{
			name:       "headerless unknown",
			item:       container.Item{Name: "a.nes", CRC32: "00000000"},
			wantAction: ActionNoHeaderUnknown,
		},
		{
			name:       "headered unknown",
			item:       container.Item{Name: "b.nes", CRC32: "00000000", Header: &matching},
			wantAction: ActionUnknown,
		},
		{
			name:       "headerless known",
			item:       container.Item{Name: "c.nes", CRC32: knownCRC},
			wantAction: ActionInsert,
			wantUpdate: true,
			wantKind:   container.InsertHeader,
		},
		{
			name:       "header matches",
			item:       container.Item{Name: "d.nes", CRC32: knownCRC, Header: &matching},
			wantAction: ActionMatch,
		},
		{
			name:       "header differs",
			item:       container.Item{Name: "e.nes", CRC32: knownCRC, Header: &differing},
			wantAction: ActionReplace,
			wantUpdate: true,
			wantKind:   container.ReplaceHeader,
		},
	}

	r := NewReconciler(db, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, update := r.Reconcile(tt.item)
			if outcome.Action != tt.wantAction {
				t.Errorf("Action = %v, want %v", outcome.Action, tt.wantAction)
			}
			if (update != nil) != tt.wantUpdate {
				t.Fatalf("update = %v, wantUpdate %v", update, tt.wantUpdate)
			}
			if update != nil {
				if update.Kind != tt.wantKind {
					t.Errorf("Kind = %v, want %v", update.Kind, tt.wantKind)
				}
				if update.Header != dbHeader {
					t.Errorf("update header = %+v, want %+v", update.Header, dbHeader)
				}
			}
			if tt.wantAction == ActionReplace && len(outcome.Diff) == 0 {
				t.Error("replace outcome carries no diff")
			}
			if tt.wantAction != ActionReplace && len(outcome.Diff) != 0 {
				t.Errorf("unexpected diff %v", outcome.Diff)
			}
		})
	}
}

func TestReconcileDryRun(t *testing.T) {
	const knownCRC = "AABBCCDD"
	r := NewReconciler(testDB(t, knownCRC), true)

	outcome, update := r.Reconcile(container.Item{Name: "a.nes", CRC32: knownCRC})
	if outcome.Action != ActionInsert {
		t.Errorf("Action = %v, want %v", outcome.Action, ActionInsert)
	}
	if update != nil {
		t.Errorf("dry run produced update %+v", update)
	}

	differing := dbHeader
	differing.Mapper = 66
	outcome, update = r.Reconcile(container.Item{Name: "b.nes", CRC32: knownCRC, Header: &differing})
	if outcome.Action != ActionReplace {
		t.Errorf("Action = %v, want %v", outcome.Action, ActionReplace)
	}
	if len(outcome.Diff) == 0 {
		t.Error("dry run outcome carries no diff")
	}
	if update != nil {
		t.Errorf("dry run produced update %+v", update)
	}
}

func TestVisitCorrectsFile(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5E, 0xE5}, 256)
	crc := fmt.Sprintf("%08X", crc32.ChecksumIEEE(payload))

	path := filepath.Join(t.TempDir(), "game.nes")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r := NewReconciler(testDB(t, crc), false)
	log := hclog.NewNullLogger()

	var actions []Action
	visit := func(item container.Item) (*container.Update, error) {
		outcome, update := r.Reconcile(item)
		actions = append(actions, outcome.Action)
		return update, nil
	}

	if err := Visit([]string{path}, log, visit); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	if len(actions) != 1 || actions[0] != ActionInsert {
		t.Fatalf("first pass actions = %v, want [ActionInsert]", actions)
	}

	// The file now carries the prescribed header.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read corrected file: %v", err)
	}
	encoded, err := dbHeader.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(data[:ines.HeaderSize], encoded) {
		t.Errorf("corrected header = % x, want % x", data[:ines.HeaderSize], encoded)
	}

	// A second pass has nothing left to fix.
	actions = nil
	if err := Visit([]string{path}, log, visit); err != nil {
		t.Fatalf("second Visit() error = %v", err)
	}
	if len(actions) != 1 || actions[0] != ActionMatch {
		t.Errorf("second pass actions = %v, want [ActionMatch]", actions)
	}
}

func TestVisitReadOnlyContainer(t *testing.T) {
	payload := bytes.Repeat([]byte{0x21}, 100)
	crc := fmt.Sprintf("%08X", crc32.ChecksumIEEE(payload))

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	path := filepath.Join(t.TempDir(), "game.nes.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	r := NewReconciler(testDB(t, crc), false)
	visit := func(item container.Item) (*container.Update, error) {
		_, update := r.Reconcile(item)
		return update, nil
	}

	// The update cannot be applied, which is a warning, not a failure.
	if err := Visit([]string{path}, hclog.NewNullLogger(), visit); err != nil {
		t.Fatalf("Visit() error = %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if !bytes.Equal(after, original) {
		t.Error("read-only container changed on disk")
	}
}

func TestVisitKeepsGoingAfterFailure(t *testing.T) {
	tmpDir := t.TempDir()
	good := filepath.Join(tmpDir, "good.nes")
	if err := os.WriteFile(good, []byte{0x01, 0x02, 0x03}, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	missing := filepath.Join(tmpDir, "missing.nes")

	var seen []string
	visit := func(item container.Item) (*container.Update, error) {
		seen = append(seen, item.Name)
		return nil, nil
	}

	err := Visit([]string{missing, good}, hclog.NewNullLogger(), visit)
	if err == nil {
		t.Error("expected error for missing path")
	}
	if len(seen) != 1 || seen[0] != good {
		t.Errorf("visited %v, want [%s]", seen, good)
	}
}

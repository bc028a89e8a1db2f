package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/haierkeys/csv-notes-service/internal/domain"
	"github.com/haierkeys/csv-notes-service/internal/dto"
	"github.com/haierkeys/csv-notes-service/pkg/code"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mockNoteRepo struct {
	domain.NoteRepository
	notes  map[int64]*domain.Note
	nextID int64
	clock  time.Time
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{
		notes: make(map[int64]*domain.Note),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockNoteRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockNoteRepo) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	n, ok := m.notes[id]
	if !ok || n.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *mockNoteRepo) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m.nextID++
	now := m.tick()
	cp := *note
	cp.ID = m.nextID
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.notes[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockNoteRepo) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	existing, ok := m.notes[note.ID]
	if !ok || existing.IsDeleted {
		return nil, gorm.ErrRecordNotFound
	}
	existing.Text = note.Text
	existing.Status = note.Status
	existing.Tags = note.Tags
	existing.UpdatedAt = m.tick()
	cp := *existing
	return &cp, nil
}

func (m *mockNoteRepo) ListAll(ctx context.Context) ([]*domain.Note, error) {
	var out []*domain.Note
	for _, n := range m.notes {
		if n.IsDeleted {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *mockNoteRepo) ListByRowID(ctx context.Context, rowID int64) ([]*domain.Note, error) {
	all, _ := m.ListAll(ctx)
	var out []*domain.Note
	for _, n := range all {
		if n.RowID == rowID {
			out = append(out, n)
		}
	}
	return out, nil
}

type mockRowRepo struct {
	domain.RowRepository
	rows       map[int64]*domain.CsvRow
	byPK       map[string]int64
	nextID     int64
	snapshots  []*domain.RowSnapshot
	orphanSeen []int64
}

func newMockRowRepo() *mockRowRepo {
	return &mockRowRepo{
		rows: make(map[int64]*domain.CsvRow),
		byPK: make(map[string]int64),
	}
}

func (m *mockRowRepo) addRow(pk string) *domain.CsvRow {
	m.nextID++
	row := &domain.CsvRow{ID: m.nextID, PrimaryKeyValue: pk}
	m.rows[row.ID] = row
	if pk != "" {
		m.byPK[pk] = row.ID
	}
	return row
}

func (m *mockRowRepo) GetByID(ctx context.Context, id int64) (*domain.CsvRow, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (m *mockRowRepo) GetByPrimaryKey(ctx context.Context, pk string) (*domain.CsvRow, error) {
	id, ok := m.byPK[pk]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.rows[id], nil
}

func (m *mockRowRepo) EnsureRow(ctx context.Context, pk string, importID int64) (*domain.CsvRow, error) {
	if pk != "" {
		if id, ok := m.byPK[pk]; ok {
			row := m.rows[id]
			row.LastSeenImportID = importID
			row.IsOrphaned = false
			return row, nil
		}
	}
	row := m.addRow(pk)
	row.FirstImportID = importID
	row.LastSeenImportID = importID
	return row, nil
}

func (m *mockRowRepo) CreateSnapshot(ctx context.Context, snap *domain.RowSnapshot) error {
	m.snapshots = append(m.snapshots, snap)
	return nil
}

func (m *mockRowRepo) ListByImport(ctx context.Context, importID int64) ([]*domain.ProjectedRow, error) {
	var out []*domain.ProjectedRow
	for _, snap := range m.snapshots {
		if snap.ImportID != importID {
			continue
		}
		pk := ""
		if row, ok := m.rows[snap.RowID]; ok {
			pk = row.PrimaryKeyValue
		}
		out = append(out, &domain.ProjectedRow{
			RowID:           snap.RowID,
			PrimaryKeyValue: pk,
			Data:            snap.Data,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RowID < out[j].RowID })
	return out, nil
}

func (m *mockRowRepo) MarkOrphans(ctx context.Context, importID int64, seenRowIDs []int64) error {
	m.orphanSeen = append([]int64{}, seenRowIDs...)
	seen := make(map[int64]bool, len(seenRowIDs))
	for _, id := range seenRowIDs {
		seen[id] = true
	}
	for _, row := range m.rows {
		if row.PrimaryKeyValue != "" && !seen[row.ID] && row.LastSeenImportID < importID {
			row.IsOrphaned = true
		}
	}
	return nil
}

func newNoteServiceForTest(notes *mockNoteRepo, rows *mockRowRepo) NoteService {
	return NewNoteService(notes, rows, zap.NewNop())
}

func TestNoteServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("by primary key", func(t *testing.T) {
		rows := newMockRowRepo()
		row := rows.addRow("SKU-9")
		svc := newNoteServiceForTest(newMockNoteRepo(), rows)

		got, err := svc.Create(ctx, &dto.NoteCreateRequest{
			PrimaryKeyValue: "SKU-9",
			NoteText:        "check stock",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if got.RowID != row.ID {
			t.Errorf("row id mismatch: got %d, want %d", got.RowID, row.ID)
		}
		if got.Status != string(domain.NoteStatusOpen) {
			t.Errorf("default status: got %s, want Open", got.Status)
		}
	})

	t.Run("by row id", func(t *testing.T) {
		rows := newMockRowRepo()
		row := rows.addRow("")
		svc := newNoteServiceForTest(newMockNoteRepo(), rows)

		got, err := svc.Create(ctx, &dto.NoteCreateRequest{
			RowID:    row.ID,
			NoteText: "no pk here",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if got.PrimaryKeyValue != nil {
			t.Errorf("expected null primary_key_value, got %v", *got.PrimaryKeyValue)
		}
	})

	t.Run("row not found", func(t *testing.T) {
		svc := newNoteServiceForTest(newMockNoteRepo(), newMockRowRepo())

		_, err := svc.Create(ctx, &dto.NoteCreateRequest{RowID: 404, NoteText: "x"})
		if err != code.ErrorRowNotFound {
			t.Errorf("expected ErrorRowNotFound, got %v", err)
		}
	})
}

func TestNoteServiceUpdateValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		req      *dto.NoteUpdateRequest
		wantErr  *code.Code
		wantTags []string
	}{
		{
			name:    "empty text rejected",
			req:     &dto.NoteUpdateRequest{NoteText: "", Status: "Open"},
			wantErr: code.ErrorNoteTextRequired,
		},
		{
			name:    "whitespace text rejected",
			req:     &dto.NoteUpdateRequest{NoteText: "   \t ", Status: "Open"},
			wantErr: code.ErrorNoteTextRequired,
		},
		{
			name:    "unknown status rejected",
			req:     &dto.NoteUpdateRequest{NoteText: "ok", Status: "Done"},
			wantErr: code.ErrorNoteStatusInvalid,
		},
		{
			name:    "empty tag rejected",
			req:     &dto.NoteUpdateRequest{NoteText: "ok", Status: "Open", Tags: []string{"a", ""}},
			wantErr: code.ErrorNoteTagInvalid,
		},
		{
			name:     "duplicate tags deduped",
			req:      &dto.NoteUpdateRequest{NoteText: "ok", Status: "Resolved", Tags: []string{"a", "b", "a"}},
			wantTags: []string{"a", "b"},
		},
		{
			name:     "missing status defaults to Open",
			req:      &dto.NoteUpdateRequest{NoteText: "ok", Status: ""},
			wantTags: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := newMockRowRepo()
			rows.addRow("PK-1")
			notes := newMockNoteRepo()
			svc := newNoteServiceForTest(notes, rows)

			created, err := svc.Create(ctx, &dto.NoteCreateRequest{
				PrimaryKeyValue: "PK-1",
				NoteText:        "original",
				Status:          "Open",
			})
			if err != nil {
				t.Fatalf("seed note failed: %v", err)
			}

			got, err := svc.Update(ctx, created.NoteID, tt.req)
			if tt.wantErr != nil {
				codeErr, ok := err.(*code.Code)
				if !ok || codeErr.Code() != tt.wantErr.Code() {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				// 校验失败不得改动存量笔记
				stored, _ := svc.Get(ctx, created.NoteID)
				if stored.NoteText != "original" {
					t.Errorf("failed update mutated note text: %s", stored.NoteText)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			if len(got.Tags) != len(tt.wantTags) {
				t.Fatalf("tags mismatch: got %v, want %v", got.Tags, tt.wantTags)
			}
			for i := range tt.wantTags {
				if got.Tags[i] != tt.wantTags[i] {
					t.Errorf("tag order mismatch: got %v, want %v", got.Tags, tt.wantTags)
				}
			}
		})
	}
}

func TestNoteServiceUpdateNotFound(t *testing.T) {
	svc := newNoteServiceForTest(newMockNoteRepo(), newMockRowRepo())

	_, err := svc.Update(context.Background(), 999, &dto.NoteUpdateRequest{
		NoteText: "x", Status: "Open",
	})
	if err != code.ErrorNoteNotFound {
		t.Errorf("expected ErrorNoteNotFound, got %v", err)
	}
}

func TestNoteServiceListByIdentity(t *testing.T) {
	ctx := context.Background()
	rows := newMockRowRepo()
	pkRow := rows.addRow("42") // 主键值恰好是数字，精确匹配优先于行ID回退
	plainRow := rows.addRow("")
	notes := newMockNoteRepo()
	svc := newNoteServiceForTest(notes, rows)

	mustCreate := func(req *dto.NoteCreateRequest) *dto.NoteDTO {
		t.Helper()
		n, err := svc.Create(ctx, req)
		if err != nil {
			t.Fatalf("seed note failed: %v", err)
		}
		return n
	}
	onPK := mustCreate(&dto.NoteCreateRequest{PrimaryKeyValue: "42", NoteText: "pk note"})
	onPlain := mustCreate(&dto.NoteCreateRequest{RowID: plainRow.ID, NoteText: "row note"})

	t.Run("primary key match wins over numeric row id", func(t *testing.T) {
		got, err := svc.ListByIdentity(ctx, "42")
		if err != nil {
			t.Fatalf("ListByIdentity failed: %v", err)
		}
		if len(got.Notes) != 1 || got.Notes[0].NoteID != onPK.NoteID {
			t.Errorf("expected only the pk note, got %+v", got.Notes)
		}
		if got.Notes[0].RowID != pkRow.ID {
			t.Errorf("row id mismatch: got %d, want %d", got.Notes[0].RowID, pkRow.ID)
		}
	})

	t.Run("numeric identity falls back to row id", func(t *testing.T) {
		got, err := svc.ListByIdentity(ctx, "2")
		if err != nil {
			t.Fatalf("ListByIdentity failed: %v", err)
		}
		if len(got.Notes) != 1 || got.Notes[0].NoteID != onPlain.NoteID {
			t.Errorf("expected only the row note, got %+v", got.Notes)
		}
	})

	t.Run("unmatched identity returns empty list", func(t *testing.T) {
		got, err := svc.ListByIdentity(ctx, "nope")
		if err != nil {
			t.Fatalf("ListByIdentity failed: %v", err)
		}
		if len(got.Notes) != 0 {
			t.Errorf("expected empty list, got %+v", got.Notes)
		}
	})
}

func TestNoteServiceListAllOrder(t *testing.T) {
	ctx := context.Background()
	rows := newMockRowRepo()
	row := rows.addRow("P1")
	svc := newNoteServiceForTest(newMockNoteRepo(), rows)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, &dto.NoteCreateRequest{RowID: row.ID, NoteText: text}); err != nil {
			t.Fatalf("seed note failed: %v", err)
		}
	}

	got, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(got.Notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(got.Notes))
	}
	// 最近创建的在前
	if got.Notes[0].NoteText != "third" || got.Notes[2].NoteText != "first" {
		t.Errorf("unexpected order: %s, %s, %s",
			got.Notes[0].NoteText, got.Notes[1].NoteText, got.Notes[2].NoteText)
	}
}

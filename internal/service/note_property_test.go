package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/haierkeys/csv-notes-service/internal/dto"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// 全量检索按行过滤后的结果必须与按行检索一致

func TestPropertyListModeConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("per-row listing equals filtered full listing", prop.ForAll(
		func(rowOfNote []int) bool {
			ctx := context.Background()
			rows := newMockRowRepo()
			svc := newNoteServiceForTest(newMockNoteRepo(), rows)

			rowIDs := make(map[int]int64)
			for i := 0; i < 4; i++ {
				rowIDs[i] = rows.addRow("").ID
			}

			for i, rowIdx := range rowOfNote {
				_, err := svc.Create(ctx, &dto.NoteCreateRequest{
					RowID:    rowIDs[rowIdx],
					NoteText: "note " + string(rune('a'+i%26)),
				})
				if err != nil {
					t.Logf("seed note failed: %v", err)
					return false
				}
			}

			all, err := svc.ListAll(ctx)
			if err != nil {
				t.Logf("ListAll failed: %v", err)
				return false
			}

			for idx := 0; idx < 4; idx++ {
				rowID := rowIDs[idx]
				byRow, err := svc.ListByIdentity(ctx, strconv.FormatInt(rowID, 10))
				if err != nil {
					t.Logf("ListByIdentity failed: %v", err)
					return false
				}

				want := make(map[int64]bool)
				for _, n := range all.Notes {
					if n.RowID == rowID {
						want[n.NoteID] = true
					}
				}
				if len(byRow.Notes) != len(want) {
					t.Logf("count mismatch for row %d: got %d, want %d", rowID, len(byRow.Notes), len(want))
					return false
				}
				for _, n := range byRow.Notes {
					if !want[n.NoteID] {
						t.Logf("unexpected note %d in row %d listing", n.NoteID, rowID)
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}

// 相同输入的重复更新不改变可变字段，且更新时间单调不减

func TestPropertyUpdateIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("identical update applied twice is idempotent", prop.ForAll(
		func(text string, statusIdx int, tags []string) bool {
			ctx := context.Background()
			rows := newMockRowRepo()
			row := rows.addRow("")
			svc := newNoteServiceForTest(newMockNoteRepo(), rows)

			created, err := svc.Create(ctx, &dto.NoteCreateRequest{
				RowID:    row.ID,
				NoteText: "seed",
			})
			if err != nil {
				t.Logf("seed note failed: %v", err)
				return false
			}

			statuses := []string{"Open", "In Progress", "Resolved", "Closed"}
			req := &dto.NoteUpdateRequest{
				NoteText: text,
				Status:   statuses[statusIdx],
				Tags:     tags,
			}

			first, err := svc.Update(ctx, created.NoteID, req)
			if err != nil {
				t.Logf("first update failed: %v", err)
				return false
			}
			second, err := svc.Update(ctx, created.NoteID, req)
			if err != nil {
				t.Logf("second update failed: %v", err)
				return false
			}

			if first.NoteText != second.NoteText || first.Status != second.Status {
				return false
			}
			if len(first.Tags) != len(second.Tags) {
				return false
			}
			for i := range first.Tags {
				if first.Tags[i] != second.Tags[i] {
					return false
				}
			}
			// 更新时间单调不减
			return !second.UpdatedTimestamp.Time().Before(first.UpdatedTimestamp.Time())
		},
		gen.RegexMatch(`[a-z][a-z ]{0,20}`),
		gen.IntRange(0, 3),
		gen.SliceOf(gen.RegexMatch(`[a-z]{1,8}`)),
	))

	properties.TestingRun(t)
}


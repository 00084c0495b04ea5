package store

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"corkboard-cli/internal/model"
	"corkboard-cli/internal/remote"
)

func cardIDs(t *testing.T, s *Store, boardID, columnID string) []string {
	t.Helper()
	b := s.GetBoard(boardID)
	col := b.FindColumn(columnID)
	if col == nil {
		t.Fatalf("column %q not found", columnID)
	}
	out := make([]string, len(col.Cards))
	for i, c := range col.Cards {
		out[i] = c.ID
	}
	return out
}

func checkDensePositions(t *testing.T, s *Store, boardID string) {
	t.Helper()
	b := s.GetBoard(boardID)
	for ci, col := range b.Columns {
		if col.Position != ci {
			t.Fatalf("column %q position = %d, want %d", col.ID, col.Position, ci)
		}
		for i, c := range col.Cards {
			if c.Position != i {
				t.Fatalf("card %q in %q position = %d, want %d", c.ID, col.ID, c.Position, i)
			}
		}
	}
}

func TestAddCardSwapsTempForServerCard(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))

	created, err := s.AddCard(context.Background(), "b1", "colA", remote.CardDraft{Title: "New card"})
	if err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	if IsTempID(created.ID) {
		t.Fatalf("created card kept temp id %q", created.ID)
	}
	if !strings.HasPrefix(created.ID, "srv-card-") {
		t.Fatalf("created card id = %q, want server-assigned", created.ID)
	}

	ids := cardIDs(t, s, "b1", "colA")
	want := []string{"X", created.ID}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("column cards = %v, want %v", ids, want)
	}
	checkDensePositions(t, s, "b1")

	if id, leaked := f.sentTempID(); leaked {
		t.Fatalf("temp id %q reached the remote", id)
	}
}

func TestAddCardKeepsLocalCreatedAtWhenServerOmitsIt(t *testing.T) {
	s, _ := seedStore(seedBoard("b1", map[string][]string{"colA": nil}, []string{"colA"}))

	// The fake's create response carries no timestamp, like a backend that
	// does not echo one.
	created, err := s.AddCard(context.Background(), "b1", "colA", remote.CardDraft{Title: "Stamped"})
	if err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("created card lost its optimistic timestamp")
	}
	b := s.GetBoard("b1")
	if _, idx, ok := b.FindCard(created.ID); !ok || b.Columns[0].Cards[idx].CreatedAt.IsZero() {
		t.Fatal("cached card lost its optimistic timestamp")
	}
}

func TestAddCardRollsBackOnFailure(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X", "Y"}}, []string{"colA"}))
	before := s.GetBoard("b1")

	f.failWith("CreateCard", errors.New("boom"))
	if _, err := s.AddCard(context.Background(), "b1", "colA", remote.CardDraft{Title: "Doomed"}); err == nil {
		t.Fatal("AddCard: want error")
	}

	after := s.GetBoard("b1")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("board not restored:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestAddCardUnknownColumnIsNoOp(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))

	if _, err := s.AddCard(context.Background(), "b1", "nope", remote.CardDraft{Title: "Lost"}); err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	if n := len(f.sentIDs); n != 0 {
		t.Fatalf("remote was called %d times for an unknown column", n)
	}
}

func TestAddCardToTempColumnIsNoOp(t *testing.T) {
	b := seedBoard("b1", nil, nil)
	b.Columns = append(b.Columns, model.Column{ID: NewTempID("col"), Title: "Pending", Cards: []model.Card{}})
	s, f := seedStore(b)

	if _, err := s.AddCard(context.Background(), "b1", b.Columns[0].ID, remote.CardDraft{Title: "Too early"}); err != nil {
		t.Fatalf("AddCard: %v", err)
	}
	if n := len(f.sentIDs); n != 0 {
		t.Fatalf("remote was called %d times for a temp column", n)
	}
}

func TestMoveCardWithinColumnUsesSingleReorder(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X", "Y", "Z"}}, []string{"colA"}))

	// X from the front to the end.
	if err := s.MoveCard(context.Background(), "b1", "colA", "colA", 0, 2); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}

	ids := cardIDs(t, s, "b1", "colA")
	want := []string{"Y", "Z", "X"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("column order = %v, want %v", ids, want)
	}
	checkDensePositions(t, s, "b1")

	if len(f.reorders) != 1 {
		t.Fatalf("reorder calls = %d, want 1", len(f.reorders))
	}
	if len(f.updates) != 0 {
		t.Fatalf("update calls = %d, want 0 for a same-column move", len(f.updates))
	}
	refs := f.reorders[0].Refs
	if len(refs) != 3 {
		t.Fatalf("reorder carried %d refs, want 3", len(refs))
	}
	for i, r := range refs {
		if r.ID != want[i] || r.Position != i {
			t.Fatalf("ref[%d] = %+v, want {%s %d}", i, r, want[i], i)
		}
	}
}

func TestMoveCardWithinColumnRollsBack(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X", "Y", "Z"}}, []string{"colA"}))
	before := s.GetBoard("b1")

	f.failWith("ReorderCards:colA", errors.New("boom"))
	if err := s.MoveCard(context.Background(), "b1", "colA", "colA", 0, 2); err == nil {
		t.Fatal("MoveCard: want error")
	}
	if after := s.GetBoard("b1"); !reflect.DeepEqual(before, after) {
		t.Fatal("board not restored after failed reorder")
	}
}

func TestMoveCardAcrossColumns(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{
		"colA": {"X", "Y"},
		"colB": {"P", "Q"},
	}, []string{"colA", "colB"}))

	// Y into colB between P and Q.
	if err := s.MoveCard(context.Background(), "b1", "colA", "colB", 1, 1); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}

	if got := cardIDs(t, s, "b1", "colA"); !reflect.DeepEqual(got, []string{"X"}) {
		t.Fatalf("source column = %v, want [X]", got)
	}
	if got := cardIDs(t, s, "b1", "colB"); !reflect.DeepEqual(got, []string{"P", "Y", "Q"}) {
		t.Fatalf("dest column = %v, want [P Y Q]", got)
	}
	checkDensePositions(t, s, "b1")

	// One card update carrying the new column, plus one reorder per column.
	if len(f.updates) != 1 {
		t.Fatalf("update calls = %d, want 1", len(f.updates))
	}
	u := f.updates[0]
	if u.CardID != "Y" || u.Patch.ColumnID == nil || *u.Patch.ColumnID != "colB" {
		t.Fatalf("card update = %+v, want Y -> colB", u)
	}
	if u.Patch.Position == nil || *u.Patch.Position != 1 {
		t.Fatalf("card update position = %v, want 1", u.Patch.Position)
	}
	if len(f.reorders) != 2 {
		t.Fatalf("reorder calls = %d, want 2", len(f.reorders))
	}
	seen := map[string]int{}
	for _, rc := range f.reorders {
		seen[rc.ColumnID] = len(rc.Refs)
	}
	if seen["colA"] != 1 || seen["colB"] != 3 {
		t.Fatalf("reorder targets = %v, want colA:1 colB:3", seen)
	}
}

func TestMoveCardAcrossColumnsRollsBackOnAnyFailure(t *testing.T) {
	for _, key := range []string{"UpdateCard:Y", "ReorderCards:colA", "ReorderCards:colB"} {
		t.Run(key, func(t *testing.T) {
			s, f := seedStore(seedBoard("b1", map[string][]string{
				"colA": {"X", "Y"},
				"colB": {"P", "Q"},
			}, []string{"colA", "colB"}))
			before := s.GetBoard("b1")

			f.failWith(key, errors.New("boom"))
			if err := s.MoveCard(context.Background(), "b1", "colA", "colB", 1, 1); err == nil {
				t.Fatal("MoveCard: want error")
			}
			if after := s.GetBoard("b1"); !reflect.DeepEqual(before, after) {
				t.Fatal("board not restored after partial failure")
			}
		})
	}
}

func TestMoveCardInvalidArgsAreNoOps(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))
	before := s.GetBoard("b1")

	cases := []struct {
		name            string
		srcCol, destCol string
		srcIdx, destIdx int
	}{
		{"unknown source", "nope", "colA", 0, 0},
		{"unknown dest", "colA", "nope", 0, 0},
		{"source index out of range", "colA", "colA", 5, 0},
		{"negative source index", "colA", "colA", -1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.MoveCard(context.Background(), "b1", tc.srcCol, tc.destCol, tc.srcIdx, tc.destIdx); err != nil {
				t.Fatalf("MoveCard: %v", err)
			}
		})
	}
	if after := s.GetBoard("b1"); !reflect.DeepEqual(before, after) {
		t.Fatal("no-op moves changed the board")
	}
	if n := len(f.sentIDs); n != 0 {
		t.Fatalf("remote was called %d times", n)
	}
}

func TestMoveCardWithTempIDIsNoOp(t *testing.T) {
	b := seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"})
	tmp := model.Card{ID: NewTempID("card"), Title: "Pending", Position: 1}
	b.Columns[0].Cards = append(b.Columns[0].Cards, tmp)
	s, f := seedStore(b)

	if err := s.MoveCard(context.Background(), "b1", "colA", "colA", 1, 0); err != nil {
		t.Fatalf("MoveCard: %v", err)
	}
	if got := cardIDs(t, s, "b1", "colA"); !reflect.DeepEqual(got, []string{"X", tmp.ID}) {
		t.Fatalf("column order changed for a temp card: %v", got)
	}
	if n := len(f.sentIDs); n != 0 {
		t.Fatalf("remote was called %d times for a temp card", n)
	}
}

func TestUpdateCardAppliesPatchOptimistically(t *testing.T) {
	s, _ := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))

	title := "Renamed"
	desc := "Now with details"
	if err := s.UpdateCard(context.Background(), "b1", "colA", "X", remote.CardPatch{Title: &title, Description: &desc}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}

	b := s.GetBoard("b1")
	col, idx, ok := b.FindCard("X")
	if !ok {
		t.Fatal("card X vanished")
	}
	got := col.Cards[idx]
	if got.Title != title || got.Description != desc {
		t.Fatalf("card = %+v, want title %q description %q", got, title, desc)
	}
	if got.Position != 0 {
		t.Fatalf("card position = %d, want 0 kept from local state", got.Position)
	}
}

func TestUpdateCardRollsBackOnFailure(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))
	before := s.GetBoard("b1")

	f.failWith("UpdateCard:X", errors.New("boom"))
	title := "Doomed"
	if err := s.UpdateCard(context.Background(), "b1", "colA", "X", remote.CardPatch{Title: &title}); err == nil {
		t.Fatal("UpdateCard: want error")
	}
	if after := s.GetBoard("b1"); !reflect.DeepEqual(before, after) {
		t.Fatal("board not restored after failed update")
	}
}

func TestUpdateCardDefaultsOmittedLabelFields(t *testing.T) {
	b := seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"})
	highlight := "label-2"
	b.Columns[0].Cards[0].LabelIDs = []string{"label-1", "label-2"}
	b.Columns[0].Cards[0].HighlightLabelID = &highlight
	s, f := seedStore(b)

	title := "Renamed"
	if err := s.UpdateCard(context.Background(), "b1", "colA", "X", remote.CardPatch{Title: &title}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}

	if len(f.updates) != 1 {
		t.Fatalf("update calls = %d, want 1", len(f.updates))
	}
	p := f.updates[0].Patch
	if p.LabelIDs == nil || !reflect.DeepEqual(*p.LabelIDs, []string{"label-1", "label-2"}) {
		t.Fatalf("patch label ids = %v, want existing labels carried", p.LabelIDs)
	}
	if p.HighlightLabelID == nil || *p.HighlightLabelID != highlight {
		t.Fatalf("patch highlight = %v, want %q carried", p.HighlightLabelID, highlight)
	}
}

func TestUpdateCardMovesToOtherColumnEnd(t *testing.T) {
	s, _ := seedStore(seedBoard("b1", map[string][]string{
		"colA": {"X"},
		"colB": {"P"},
	}, []string{"colA", "colB"}))

	dest := "colB"
	if err := s.UpdateCard(context.Background(), "b1", "colA", "X", remote.CardPatch{ColumnID: &dest}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}

	if got := cardIDs(t, s, "b1", "colA"); len(got) != 0 {
		t.Fatalf("source column = %v, want empty", got)
	}
	if got := cardIDs(t, s, "b1", "colB"); !reflect.DeepEqual(got, []string{"P", "X"}) {
		t.Fatalf("dest column = %v, want [P X]", got)
	}
	checkDensePositions(t, s, "b1")
}

func TestUpdateCardIgnoresStaleColumnHint(t *testing.T) {
	// The caller believes X is still in colA, but it lives in colB.
	s, _ := seedStore(seedBoard("b1", map[string][]string{
		"colA": {"P"},
		"colB": {"X"},
	}, []string{"colA", "colB"}))

	title := "Renamed"
	if err := s.UpdateCard(context.Background(), "b1", "colA", "X", remote.CardPatch{Title: &title}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}
	b := s.GetBoard("b1")
	col, idx, ok := b.FindCard("X")
	if !ok || col.ID != "colB" {
		t.Fatalf("card X in column %v, want colB", col)
	}
	if col.Cards[idx].Title != title {
		t.Fatalf("card title = %q, want %q", col.Cards[idx].Title, title)
	}
}

func TestUpdateCardTempIDIsNoOp(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))

	title := "Too early"
	if err := s.UpdateCard(context.Background(), "b1", "colA", NewTempID("card"), remote.CardPatch{Title: &title}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}
	if n := len(f.sentIDs); n != 0 {
		t.Fatalf("remote was called %d times for a temp card", n)
	}
}

func TestDeleteCardRemovesAfterRemoteSuccess(t *testing.T) {
	s, _ := seedStore(seedBoard("b1", map[string][]string{"colA": {"X", "Y", "Z"}}, []string{"colA"}))

	if err := s.DeleteCard(context.Background(), "b1", "colA", "Y"); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}
	if got := cardIDs(t, s, "b1", "colA"); !reflect.DeepEqual(got, []string{"X", "Z"}) {
		t.Fatalf("column = %v, want [X Z]", got)
	}
	checkDensePositions(t, s, "b1")
}

func TestDeleteCardKeepsStateOnFailure(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X", "Y"}}, []string{"colA"}))
	before := s.GetBoard("b1")

	f.failWith("DeleteCard:Y", errors.New("boom"))
	if err := s.DeleteCard(context.Background(), "b1", "colA", "Y"); err == nil {
		t.Fatal("DeleteCard: want error")
	}
	if after := s.GetBoard("b1"); !reflect.DeepEqual(before, after) {
		t.Fatal("board changed despite failed delete")
	}
}

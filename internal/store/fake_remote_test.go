package store

import (
	"context"
	"fmt"
	"sync"

	"corkboard-cli/internal/model"
	"corkboard-cli/internal/remote"
)

// fakeRemote is a scriptable in-memory backend. Tests point individual
// methods at errors with failWith and inspect the recorded calls afterwards.
type fakeRemote struct {
	mu   sync.Mutex
	seq  int
	fail map[string]error

	board    model.Board
	comments map[string][]model.Comment

	reorders []reorderCall
	updates  []cardUpdateCall
	colPatch []columnPatchCall
	sentIDs  []string
}

type reorderCall struct {
	ColumnID string
	Refs     []remote.CardRef
}

type cardUpdateCall struct {
	CardID string
	Patch  remote.CardPatch
}

type columnPatchCall struct {
	ColumnID string
	Patch    remote.ColumnPatch
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		fail:     map[string]error{},
		comments: map[string][]model.Comment{},
	}
}

// failWith makes the named method return err. A key of "method:id" scopes
// the failure to calls targeting that column/card.
func (f *fakeRemote) failWith(key string, err error) {
	f.mu.Lock()
	f.fail[key] = err
	f.mu.Unlock()
}

func (f *fakeRemote) errFor(method string, ids ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if err, ok := f.fail[method+":"+id]; ok {
			return err
		}
	}
	return f.fail[method]
}

func (f *fakeRemote) nextID(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("srv-%s-%d", prefix, f.seq)
}

func (f *fakeRemote) record(ids ...string) {
	f.mu.Lock()
	f.sentIDs = append(f.sentIDs, ids...)
	f.mu.Unlock()
}

func (f *fakeRemote) GetBoard(ctx context.Context, boardID string) (model.Board, error) {
	if err := f.errFor("GetBoard", boardID); err != nil {
		return model.Board{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.board.Clone(), nil
}

func (f *fakeRemote) CreateColumn(ctx context.Context, boardID, title string) (model.Column, error) {
	if err := f.errFor("CreateColumn"); err != nil {
		return model.Column{}, err
	}
	return model.Column{ID: f.nextID("col"), Title: title}, nil
}

func (f *fakeRemote) UpdateColumn(ctx context.Context, boardID, columnID string, patch remote.ColumnPatch) (model.Column, error) {
	f.record(columnID)
	if err := f.errFor("UpdateColumn", columnID); err != nil {
		return model.Column{}, err
	}
	f.mu.Lock()
	f.colPatch = append(f.colPatch, columnPatchCall{ColumnID: columnID, Patch: patch})
	f.mu.Unlock()
	out := model.Column{ID: columnID}
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Position != nil {
		out.Position = *patch.Position
	}
	out.LabelID = patch.LabelID
	return out, nil
}

func (f *fakeRemote) DeleteColumn(ctx context.Context, boardID, columnID string) error {
	f.record(columnID)
	return f.errFor("DeleteColumn", columnID)
}

func (f *fakeRemote) CreateCard(ctx context.Context, boardID, columnID string, draft remote.CardDraft) (model.Card, error) {
	f.record(columnID)
	if err := f.errFor("CreateCard", columnID); err != nil {
		return model.Card{}, err
	}
	return model.Card{
		ID:          f.nextID("card"),
		Title:       draft.Title,
		Description: draft.Description,
		Assignee:    draft.Assignee,
	}, nil
}

func (f *fakeRemote) UpdateCard(ctx context.Context, boardID, cardID string, patch remote.CardPatch) (model.Card, error) {
	f.record(cardID)
	if err := f.errFor("UpdateCard", cardID); err != nil {
		return model.Card{}, err
	}
	f.mu.Lock()
	f.updates = append(f.updates, cardUpdateCall{CardID: cardID, Patch: patch})
	f.mu.Unlock()
	out := model.Card{ID: cardID}
	applyCardPatch(&out, patch)
	if patch.Position != nil {
		out.Position = *patch.Position
	}
	return out, nil
}

func (f *fakeRemote) DeleteCard(ctx context.Context, boardID, cardID string) error {
	f.record(cardID)
	return f.errFor("DeleteCard", cardID)
}

func (f *fakeRemote) ReorderCards(ctx context.Context, boardID, columnID string, refs []remote.CardRef) error {
	f.record(columnID)
	for _, r := range refs {
		f.record(r.ID)
	}
	if err := f.errFor("ReorderCards", columnID); err != nil {
		return err
	}
	f.mu.Lock()
	f.reorders = append(f.reorders, reorderCall{ColumnID: columnID, Refs: append([]remote.CardRef(nil), refs...)})
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) CreateLabel(ctx context.Context, boardID string, draft remote.LabelDraft) (model.Label, error) {
	if err := f.errFor("CreateLabel"); err != nil {
		return model.Label{}, err
	}
	return model.Label{ID: f.nextID("label"), Name: draft.Name, Color: draft.Color}, nil
}

func (f *fakeRemote) UpdateLabel(ctx context.Context, boardID, labelID string, draft remote.LabelDraft) (model.Label, error) {
	f.record(labelID)
	if err := f.errFor("UpdateLabel", labelID); err != nil {
		return model.Label{}, err
	}
	return model.Label{ID: labelID, Name: draft.Name, Color: draft.Color}, nil
}

func (f *fakeRemote) DeleteLabel(ctx context.Context, boardID, labelID string) error {
	f.record(labelID)
	return f.errFor("DeleteLabel", labelID)
}

func (f *fakeRemote) ListComments(ctx context.Context, boardID, cardID string) ([]model.Comment, error) {
	f.record(cardID)
	if err := f.errFor("ListComments", cardID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Comment(nil), f.comments[cardID]...), nil
}

func (f *fakeRemote) CreateComment(ctx context.Context, boardID, cardID, author, content string) (model.Comment, error) {
	f.record(cardID)
	if err := f.errFor("CreateComment", cardID); err != nil {
		return model.Comment{}, err
	}
	c := model.Comment{ID: f.nextID("comment"), CardID: cardID, Author: author, Content: content}
	f.mu.Lock()
	f.comments[cardID] = append(f.comments[cardID], c)
	f.mu.Unlock()
	return c, nil
}

func (f *fakeRemote) sentTempID() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.sentIDs {
		if IsTempID(id) {
			return id, true
		}
	}
	return "", false
}

// seedBoard builds a board with the given columns; each cards entry is a
// column's card titles in order.
func seedBoard(boardID string, cols map[string][]string, order []string) model.Board {
	b := model.Board{ID: boardID, Name: "Test board", Columns: []model.Column{}}
	for i, colID := range order {
		col := model.Column{ID: colID, Title: colID, Position: i, Cards: []model.Card{}}
		for j, title := range cols[colID] {
			col.Cards = append(col.Cards, model.Card{ID: title, Title: title, Position: j})
		}
		b.Columns = append(b.Columns, col)
	}
	return b
}

// seedStore commits a board into a fresh store+fake pair.
func seedStore(b model.Board) (*Store, *fakeRemote) {
	f := newFakeRemote()
	f.board = b.Clone()
	s := New(f)
	s.commit(b.ID, b)
	return s, f
}

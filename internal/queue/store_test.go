package queue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tubewaves/internal/media"
)

func item(id string) media.Item {
	return media.Item{ID: id, Title: "Title " + id}
}

func ids(items []media.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestStore_EnqueueDeduplicates(t *testing.T) {
	s := NewStore()

	assert.True(t, s.Enqueue(item("a")))
	assert.True(t, s.Enqueue(item("b")))
	assert.False(t, s.Enqueue(item("a")), "duplicate id rejected")

	assert.Equal(t, []string{"a", "b"}, ids(s.Queue()))
	assert.Equal(t, 2, s.QueueLen())
}

func TestStore_Dequeue(t *testing.T) {
	s := NewStore()
	s.Enqueue(item("a"))
	s.Enqueue(item("b"))
	s.Enqueue(item("c"))

	assert.True(t, s.Dequeue("b"))
	assert.False(t, s.Dequeue("b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Queue()))
}

func TestStore_AdvanceIsFIFO(t *testing.T) {
	s := NewStore()
	s.Select(item("x"))
	s.Enqueue(item("a"))
	s.Enqueue(item("b"))

	next, ok := s.Advance()
	require.True(t, ok)
	assert.Equal(t, "a", next.ID)
	cur, _ := s.Current()
	assert.Equal(t, "a", cur.ID)
	assert.Equal(t, []string{"b"}, ids(s.Queue()))

	next, ok = s.Advance()
	require.True(t, ok)
	assert.Equal(t, "b", next.ID)

	_, ok = s.Advance()
	assert.False(t, ok, "empty queue")
	cur, _ = s.Current()
	assert.Equal(t, "b", cur.ID, "current kept on empty queue")
}

func TestStore_RewindUsesLibraryOrder(t *testing.T) {
	s := NewStore()
	s.SetLibrary([]media.Item{item("a"), item("b"), item("c")})
	s.Enqueue(item("z"))
	s.Select(item("c"))

	assert.True(t, s.HasPrevious())
	prev, ok := s.Rewind()
	require.True(t, ok)
	assert.Equal(t, "b", prev.ID)

	_, ok = s.Rewind()
	require.True(t, ok)
	cur, _ := s.Current()
	assert.Equal(t, "a", cur.ID)

	assert.False(t, s.HasPrevious())
	_, ok = s.Rewind()
	assert.False(t, ok, "first library item has no previous")
	cur, _ = s.Current()
	assert.Equal(t, "a", cur.ID)
	assert.Equal(t, []string{"z"}, ids(s.Queue()), "rewind leaves the queue alone")
}

func TestStore_RewindOutsideLibrary(t *testing.T) {
	s := NewStore()
	s.SetLibrary([]media.Item{item("a"), item("b")})

	_, ok := s.Rewind()
	assert.False(t, ok, "no current item")

	s.Select(item("q"))
	_, ok = s.Rewind()
	assert.False(t, ok, "current not in library")
}

func TestStore_ObserverSeesTransitions(t *testing.T) {
	s := NewStore()
	type transition struct{ prev, cur string }
	var got []transition
	s.OnCurrentChange(func(prev, cur *media.Item) {
		var tr transition
		if prev != nil {
			tr.prev = prev.ID
		}
		if cur != nil {
			tr.cur = cur.ID
		}
		got = append(got, tr)
	})

	s.Select(item("a"))
	s.Select(item("a"))
	s.Enqueue(item("b"))
	s.Advance()
	s.Clear()
	s.Clear()

	assert.Equal(t, []transition{{"", "a"}, {"a", "b"}, {"b", ""}}, got)
}

func TestStore_ReselectNotifiesWithoutChange(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe()
	var changes, reselects []string
	s.OnCurrentChange(func(_, cur *media.Item) { changes = append(changes, cur.ID) })
	s.OnReselect(func(it media.Item) { reselects = append(reselects, it.ID) })

	s.Select(item("a"))
	<-sub.Changed
	s.Select(item("a"))

	assert.Equal(t, []string{"a"}, changes)
	assert.Equal(t, []string{"a"}, reselects)
	assert.Empty(t, sub.Changed, "reselect publishes nothing")
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.ID)
}

func TestStore_ObserverMayReenter(t *testing.T) {
	s := NewStore()
	s.Enqueue(item("b"))
	var seen []string
	s.OnCurrentChange(func(_, cur *media.Item) {
		if cur != nil {
			seen = append(seen, cur.ID)
			_ = s.Queue()
			if cur.ID == "a" {
				s.Advance()
			}
		}
	})

	s.Select(item("a"))

	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestStore_AppendLibrarySkipsDuplicates(t *testing.T) {
	s := NewStore()
	s.SetLibrary([]media.Item{item("a"), item("b")})
	s.AppendLibrary([]media.Item{item("b"), item("c")})

	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Library()))
}

func TestStore_SearchStatus(t *testing.T) {
	tests := []struct {
		name     string
		category string
		items    []media.Item
		err      error
		wantErr  string
		wantLib  int
	}{
		{name: "results", items: []media.Item{item("a")}, wantLib: 1},
		{name: "empty search", wantErr: MsgNoResults},
		{name: "empty category", category: "Chill", wantErr: "No Chill videos found. Try a different category."},
		{name: "failure", err: errors.New("boom"), wantErr: MsgFailedToLoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.SetLibrary([]media.Item{item("old")})

			s.BeginSearch("term", tt.category)
			st := s.Status()
			assert.True(t, st.Loading)
			assert.Equal(t, "term", st.Term)

			s.FinishSearch(tt.items, tt.err)
			st = s.Status()
			assert.False(t, st.Loading)
			assert.Equal(t, tt.wantErr, st.Err)
			assert.Len(t, s.Library(), tt.wantLib)
		})
	}
}

func TestStore_SubscribePublishesParts(t *testing.T) {
	s := NewStore()
	sub := s.Subscribe()

	s.Enqueue(item("a"))
	c := <-sub.Changed
	assert.True(t, c.Has(PartQueue))
	assert.False(t, c.Has(PartCurrent))

	s.Advance()
	c = <-sub.Changed
	assert.True(t, c.Has(PartCurrent))
	assert.True(t, c.Has(PartQueue))

	s.Close()
	s.Close()
	<-sub.Done

	late := s.Subscribe()
	select {
	case <-late.Done:
	default:
		t.Fatal("subscription after close should be done")
	}
}

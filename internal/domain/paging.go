package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CursorKind tells which source a cursor addresses.
type CursorKind int

const (
	// CursorLocal addresses a 0-indexed page of the local cache.
	CursorLocal CursorKind = iota
	// CursorRemote addresses a 1-indexed page of the remote catalog.
	CursorRemote
	// CursorEnd marks the end of the sequence.
	CursorEnd
)

// MaxCursorPage is the largest page number a cursor token may carry.
const MaxCursorPage = math.MaxInt32

// Cursor is the continuation token returned with every page.
type Cursor struct {
	Kind CursorKind
	N    int
}

func LocalOffset(n int) Cursor { return Cursor{Kind: CursorLocal, N: n} }
func RemotePage(n int) Cursor  { return Cursor{Kind: CursorRemote, N: n} }
func Exhausted() Cursor        { return Cursor{Kind: CursorEnd} }

// First is the cursor of the first page of a session.
func First() Cursor { return LocalOffset(0) }

func (c Cursor) IsEnd() bool { return c.Kind == CursorEnd }

// String encodes the cursor as an opaque token. The end cursor encodes to "".
func (c Cursor) String() string {
	switch c.Kind {
	case CursorLocal:
		return "local:" + strconv.Itoa(c.N)
	case CursorRemote:
		return "remote:" + strconv.Itoa(c.N)
	default:
		return ""
	}
}

// ParseCursor decodes a token produced by Cursor.String. An empty token is the
// first page.
func ParseCursor(token string) (Cursor, error) {
	if token == "" {
		return First(), nil
	}

	kind, num, ok := strings.Cut(token, ":")
	if !ok {
		return Cursor{}, fmt.Errorf("invalid cursor %q", token)
	}

	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return Cursor{}, fmt.Errorf("invalid cursor %q", token)
	}
	if n > MaxCursorPage {
		return Cursor{}, fmt.Errorf("invalid cursor %q: page out of range", token)
	}

	switch kind {
	case "local":
		return LocalOffset(n), nil
	case "remote":
		if n < 1 {
			return Cursor{}, fmt.Errorf("invalid cursor %q: remote pages start at 1", token)
		}
		return RemotePage(n), nil
	}

	return Cursor{}, fmt.Errorf("invalid cursor %q", token)
}

// PageSource records where the items of a page came from.
type PageSource string

const (
	SourceLocal  PageSource = "local"
	SourceRemote PageSource = "remote"
	SourceMixed  PageSource = "mixed"
)

// Page is one chunk of a paged listing. There is no previous cursor.
type Page struct {
	Items  []Movie
	Next   Cursor
	Source PageSource
}

// Session is the paging state of one search keyword. It is a value: the
// paging engine returns an updated copy instead of mutating its input.
type Session struct {
	Keyword string
	// Local accumulates the locally-sourced movies of the session.
	Local []Movie
	// Delivered holds the ids already surfaced in the session.
	Delivered map[string]struct{}
	// Remote is set once the session has fetched from the remote catalog.
	Remote bool
}

// NewSession starts a session with all state reset.
func NewSession(keyword string) Session {
	return Session{
		Keyword:   keyword,
		Delivered: map[string]struct{}{},
	}
}

// Continue starts a session for keyword that keeps the local accumulator of s,
// so remote results of the new session are deduplicated against it.
func (s Session) Continue(keyword string) Session {
	next := NewSession(keyword)
	next.Local = append([]Movie(nil), s.Local...)
	return next
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	c := Session{
		Keyword:   s.Keyword,
		Local:     append([]Movie(nil), s.Local...),
		Delivered: make(map[string]struct{}, len(s.Delivered)),
		Remote:    s.Remote,
	}
	for id := range s.Delivered {
		c.Delivered[id] = struct{}{}
	}
	return c
}

// Package view turns state into the data each page shows. Nothing here touches HTTP or storage, so the access
// rules and the reading navigation can be tested on their own.
package view

import (
	"iter"
	"net/url"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sidereusnuntius/gonovel/internal/domain"
)

var policy = bluemonday.UGCPolicy()

// Sanitize strips scripts, handlers and other unsafe markup from chapter HTML.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}

func NovelPath(novelID domain.ID) string {
	return "/novels/" + url.PathEscape(novelID.String())
}

func ChapterPath(novelID, chapterID domain.ID) string {
	return NovelPath(novelID) + "/chapters/" + url.PathEscape(chapterID.String())
}

// Auth is the state of the login and membership widget shown on every page.
type Auth struct {
	LoggedIn bool
	Username string
	Premium  bool
}

func NewAuth(u domain.User, ok bool) Auth {
	if !ok {
		return Auth{}
	}
	return Auth{
		LoggedIn: true,
		Username: u.Username,
		Premium:  u.IsPremium(),
	}
}

// CanRead reports whether the chapter's content may be shown: premium chapters need a logged in premium user.
func CanRead(u domain.User, loggedIn bool, ch domain.Chapter) bool {
	if !ch.Premium {
		return true
	}
	return loggedIn && u.IsPremium()
}

type NovelCard struct {
	Title       string
	Author      string
	Description string
	Href        string
	Chapters    int
}

type Home struct {
	Query  string
	Novels []NovelCard
}

func NewHome(query string, novels []domain.Novel) Home {
	h := Home{
		Query:  query,
		Novels: make([]NovelCard, len(novels)),
	}
	for i, n := range novels {
		h.Novels[i] = NovelCard{
			Title:       n.Title,
			Author:      n.Author,
			Description: n.Description,
			Href:        NovelPath(n.ID),
			Chapters:    len(n.Chapters),
		}
	}
	return h
}

type ChapterLink struct {
	Title   string
	Href    string
	Premium bool
	Read    bool
}

type NovelDetail struct {
	Title       string
	Author      string
	Description string
	Chapters    []ChapterLink
	ReadCount   int
	// Continue links to the last chapter read, if any.
	Continue *ChapterLink
}

func NewNovelDetail(n domain.Novel, p domain.Progress) NovelDetail {
	d := NovelDetail{
		Title:       n.Title,
		Author:      n.Author,
		Description: n.Description,
		Chapters:    make([]ChapterLink, len(n.Chapters)),
	}
	for i, ch := range n.Chapters {
		d.Chapters[i] = link(n.ID, ch, p)
		if d.Chapters[i].Read {
			d.ReadCount++
		}
		if p.LastRead != "" && ch.ID == p.LastRead {
			c := d.Chapters[i]
			d.Continue = &c
		}
	}
	return d
}

func link(novelID domain.ID, ch domain.Chapter, p domain.Progress) ChapterLink {
	return ChapterLink{
		Title:   ch.Title,
		Href:    ChapterPath(novelID, ch.ID),
		Premium: ch.Premium,
		Read:    p.HasRead(ch.ID),
	}
}

type Comment struct {
	Username string
	Time     string
	Content  string
}

type Comments struct {
	Action string
	// CanPost is false for visitors; the form is replaced by a login prompt.
	CanPost bool
	List    []Comment
}

const TimeFormat = "2006-01-02 15:04 UTC"

func NewComments(novelID, chapterID domain.ID, loggedIn bool, comments iter.Seq[domain.Comment]) Comments {
	c := Comments{
		Action:  ChapterPath(novelID, chapterID) + "/comments",
		CanPost: loggedIn,
		List:    []Comment{},
	}
	if comments == nil {
		return c
	}
	for cm := range comments {
		c.List = append(c.List, Comment{
			Username: cm.Username,
			Time:     cm.Timestamp.UTC().Format(TimeFormat),
			Content:  cm.Content,
		})
	}
	return c
}

type Reader struct {
	NovelTitle string
	NovelHref  string
	Title      string
	// Locked is true when the chapter is premium and the reader is not; Content is then empty and the upgrade
	// prompt is shown instead.
	Locked       bool
	Content      string
	ShowMarkRead bool
	Read         bool
	MarkReadPath string
	Prev, Next   *ChapterLink
	Comments     Comments
}

// NewReader builds the reader page for the chapter at position i of the novel.
func NewReader(n domain.Novel, i int, u domain.User, loggedIn bool, p domain.Progress, comments iter.Seq[domain.Comment]) Reader {
	ch := n.Chapters[i]
	r := Reader{
		NovelTitle:   n.Title,
		NovelHref:    NovelPath(n.ID),
		Title:        ch.Title,
		Locked:       !CanRead(u, loggedIn, ch),
		Read:         p.HasRead(ch.ID),
		MarkReadPath: ChapterPath(n.ID, ch.ID) + "/read",
		Comments:     NewComments(n.ID, ch.ID, loggedIn, comments),
	}
	if !r.Locked {
		r.Content = Sanitize(ch.Content)
		r.ShowMarkRead = true
	}

	prev, next := n.Neighbours(i)
	if prev != nil {
		l := link(n.ID, *prev, p)
		r.Prev = &l
	}
	if next != nil {
		l := link(n.ID, *next, p)
		r.Next = &l
	}
	return r
}

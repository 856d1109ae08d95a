package post

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Status controls public visibility of a post. Only published posts are
// listed, searched or recommended.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// MaxTitleLength caps a post title in runes.
const MaxTitleLength = 250

// Tag is shared between posts; it has no owner.
type Tag struct {
	ID   string `json:"id" bson:"id"`
	Slug string `json:"slug" bson:"slug"`
	Name string `json:"name" bson:"name"`
}

// Post is a blog entry. Slug is unique per publish date.
type Post struct {
	ID      string    `json:"id" bson:"_id"`
	Title   string    `json:"title" bson:"title"`
	Slug    string    `json:"slug" bson:"slug"`
	Author  string    `json:"author" bson:"author"`
	Body    string    `json:"body" bson:"body"`
	Status  Status    `json:"status" bson:"status"`
	Publish time.Time `json:"publish" bson:"publish"`
	Created time.Time `json:"created" bson:"created"`
	Updated time.Time `json:"updated" bson:"updated"`
	Tags    []Tag     `json:"tags" bson:"tags"`
}

func (p *Post) IsPublished() bool { return p != nil && p.Status == StatusPublished }

// TagIDs returns the distinct tag identifiers of the post.
func (p *Post) TagIDs() []string {
	seen := make(map[string]struct{}, len(p.Tags))
	out := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t.ID)
	}
	return out
}

func (p *Post) HasTag(id string) bool {
	for _, t := range p.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// URL is the canonical detail path, e.g. /blog/2024/1/31/my-post/.
func (p *Post) URL() string {
	return fmt.Sprintf("/blog/%d/%d/%d/%s/", p.Publish.Year(), int(p.Publish.Month()), p.Publish.Day(), p.Slug)
}

// PublishedOn reports whether the post was published on the given calendar day.
func (p *Post) PublishedOn(year, month, day int) bool {
	return p.Publish.Year() == year && int(p.Publish.Month()) == month && p.Publish.Day() == day
}

// SharesURL reports whether o would resolve to the same detail URL as p.
func (p *Post) SharesURL(o *Post) bool {
	y, m, d := p.Publish.Date()
	return p.ID != o.ID && p.Slug == o.Slug && o.PublishedOn(y, int(m), d)
}

// Comment belongs to a post; inactive comments are hidden.
type Comment struct {
	ID      string    `json:"id" bson:"_id"`
	PostID  string    `json:"postId" bson:"postId"`
	Name    string    `json:"name" bson:"name"`
	Email   string    `json:"email" bson:"email"`
	Body    string    `json:"body" bson:"body"`
	Created time.Time `json:"created" bson:"created"`
	Updated time.Time `json:"updated" bson:"updated"`
	Active  bool      `json:"active" bson:"active"`
}

// Slugify lowercases s and joins its letter/digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case r == '_' || r == '-' || unicode.IsSpace(r):
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

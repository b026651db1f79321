package project

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// RawRecord is a project as it arrives from a source, before any defaults
// are applied. ID and CreatedTime carry source metadata (an Airtable record
// id and creation time) and win over or back up the matching fields.
type RawRecord struct {
	ID          string
	CreatedTime string
	Fields      map[string]any
}

type field int

const (
	fieldID field = iota
	fieldTitle
	fieldDescription
	fieldShortDescription
	fieldTechnologies
	fieldCategory
	fieldStatus
	fieldClientName
	fieldProjectURL
	fieldGitHubURL
	fieldImageURL
	fieldImages
	fieldStartDate
	fieldEndDate
	fieldFeatured
	fieldTags
	fieldCreatedTime
	fieldCount
)

// aliases lists, per canonical field, the raw keys that may hold it. The
// first key with a non-empty value wins. Camel-case keys come from the
// embedded catalog, labelled keys from the Airtable table.
var aliases = [fieldCount][]string{
	fieldID:               {"id", "ID"},
	fieldTitle:            {"title", "Title"},
	fieldDescription:      {"description", "Description"},
	fieldShortDescription: {"shortDescription", "Short Description"},
	fieldTechnologies:     {"technologies", "Technologies", "techStack", "Tech Stack"},
	fieldCategory:         {"category", "Category"},
	fieldStatus:           {"status", "Status"},
	fieldClientName:       {"clientName", "Client Name", "client", "Client"},
	fieldProjectURL:       {"projectUrl", "Project URL", "link", "Link"},
	fieldGitHubURL:        {"githubUrl", "GitHub URL", "github", "GitHub"},
	fieldImageURL:         {"imageUrl", "Image URL"},
	fieldImages:           {"images", "Image", "Images"},
	fieldStartDate:        {"startDate", "Start Date"},
	fieldEndDate:          {"endDate", "End Date"},
	fieldFeatured:         {"featured", "Featured"},
	fieldTags:             {"tags", "Tags"},
	fieldCreatedTime:      {"createdTime", "Created"},
}

// KnownKey reports whether a raw key is read by Normalize. Unknown keys are
// ignored silently, which is what catalog linting warns about.
func KnownKey(key string) bool {
	for _, keys := range aliases {
		for _, k := range keys {
			if k == key {
				return true
			}
		}
	}
	return false
}

// Normalize maps a raw record onto a Project. It never fails: every field has
// a default and keys it does not know are ignored.
func Normalize(rec RawRecord) *Project {
	fields := rec.Fields
	get := func(f field) (any, bool) {
		return lookup(fields, aliases[f])
	}
	text := func(f field) string {
		v, ok := get(f)
		if !ok {
			return ""
		}
		return toString(v)
	}
	textOr := func(f field, def string) string {
		if s := text(f); s != "" {
			return s
		}
		return def
	}

	p := &Project{
		ID:           rec.ID,
		Title:        textOr(fieldTitle, DefaultTitle),
		Description:  text(fieldDescription),
		Category:     textOr(fieldCategory, DefaultCategory),
		Status:       textOr(fieldStatus, DefaultStatus),
		ClientName:   text(fieldClientName),
		ProjectURL:   text(fieldProjectURL),
		GitHubURL:    text(fieldGitHubURL),
		StartDate:    optionalDate(get(fieldStartDate)),
		EndDate:      optionalDate(get(fieldEndDate)),
		Featured:     toBool(get(fieldFeatured)),
		CreatedTime:  textOr(fieldCreatedTime, rec.CreatedTime),
		Technologies: parseList(get(fieldTechnologies)),
		Tags:         parseList(get(fieldTags)),
		Images:       parseImages(get(fieldImages)),
	}
	if p.ID == "" {
		p.ID = text(fieldID)
	}

	p.ShortDescription = text(fieldShortDescription)
	if p.ShortDescription == "" && p.Description != "" {
		p.ShortDescription = truncate(p.Description, ShortDescriptionLength) + Ellipsis
	}

	p.ImageURL = text(fieldImageURL)
	if p.ImageURL == "" && len(p.Images) > 0 {
		p.ImageURL = p.Images[0].URL
	}
	return p
}

func lookup(fields map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		v, ok := fields[k]
		if ok && present(v) {
			return v, true
		}
	}
	return nil, false
}

// present mirrors a truthiness check: nil, empty strings, empty lists and
// false count as missing so the next alias is tried.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// toBool accepts a bool or a string strconv.ParseBool reads as true.
func toBool(v any, ok bool) bool {
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	default:
		return false
	}
}

func optionalDate(v any, ok bool) *string {
	if !ok {
		return nil
	}
	s := toString(v)
	if s == "" {
		return nil
	}
	return &s
}

// parseList accepts a native list or a comma separated string. Anything else
// yields an empty, non-nil list.
func parseList(v any, ok bool) []string {
	out := []string{}
	if !ok {
		return out
	}
	switch t := v.(type) {
	case []string:
		return append(out, t...)
	case []any:
		for _, item := range t {
			out = append(out, toString(item))
		}
	case string:
		for _, item := range strings.Split(t, ",") {
			out = append(out, strings.TrimSpace(item))
		}
	}
	return out
}

// parseImages accepts a list whose elements are {url, filename} objects (the
// shape of an Airtable attachment) or bare URLs.
func parseImages(v any, ok bool) []Image {
	out := []Image{}
	if !ok {
		return out
	}
	items, isList := v.([]any)
	if !isList {
		return out
	}
	for _, item := range items {
		img := Image{Filename: DefaultFilename}
		switch t := item.(type) {
		case map[string]any:
			img.URL = toString(t["url"])
			if name := toString(t["filename"]); name != "" {
				img.Filename = name
			}
		default:
			img.URL = toString(t)
		}
		out = append(out, img)
	}
	return out
}

// truncate keeps the first n characters of s, counting runes rather than
// bytes so multi-byte text is never split.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

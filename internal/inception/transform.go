package inception

import "strings"

// FragmentSeparator joins the wrapped fragments.
const FragmentSeparator = "\n"

// Wrap returns content enclosed in tag. attrs is inserted verbatim after the
// tag name; when it is empty the opening tag is just <tag>. Nothing is
// escaped.
func Wrap(tag, attrs, content string) string {
	var b strings.Builder
	b.Grow(len(tag)*2 + len(attrs) + len(content) + 6)
	b.WriteString("<")
	b.WriteString(tag)
	if attrs != "" {
		b.WriteString(" ")
		b.WriteString(attrs)
	}
	b.WriteString(">")
	b.WriteString(content)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
	return b.String()
}

// Fragment wraps a single file according to cfg.
func Fragment(f *File, cfg Config) (string, error) {
	attrs, err := Resolve(cfg.Attributes, ParsePath(f.Path))
	if err != nil {
		return "", err
	}
	return Wrap(cfg.WrapTag, attrs.String(), string(f.Contents)), nil
}

// Transform wraps every file in order and joins the fragments.
func Transform(files []*File, cfg Config) (string, error) {
	fragments := make([]string, 0, len(files))
	for _, f := range files {
		fragment, err := Fragment(f, cfg)
		if err != nil {
			return "", err
		}
		fragments = append(fragments, fragment)
	}
	return strings.Join(fragments, FragmentSeparator), nil
}

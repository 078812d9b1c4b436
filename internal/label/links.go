package label

import "strings"

// Links turns relative resource names into URLs for rendered output.
type Links interface {
	ImagePath(name string) string
	AbsoluteURL(path string) string
}

// StaticLinks resolves links against fixed roots.
type StaticLinks struct {
	RootURL   string
	ImageRoot string
}

// ImagePath returns the icon path for a named image, e.g. a verdict color.
func (l StaticLinks) ImagePath(name string) string {
	return join(l.ImageRoot, name+".png")
}

// AbsoluteURL prefixes a server-relative path with the root URL.
func (l StaticLinks) AbsoluteURL(path string) string {
	return join(l.RootURL, path)
}

func join(root, p string) string {
	if root == "" {
		return p
	}
	return strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(p, "/")
}

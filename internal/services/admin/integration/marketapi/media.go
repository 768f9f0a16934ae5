package marketapi

import "strings"

// MediaURL resolves a media path returned by the API. Absolute URLs pass
// through, relative paths resolve under the storage host's /storage prefix,
// and JSON-escaped slashes are unescaped.
func (c *Client) MediaURL(path string) string {
	return ResolveMediaURL(c.storageURL, path)
}

// ResolveMediaURL is MediaURL against an explicit storage host.
func ResolveMediaURL(storageURL, path string) string {
	path = strings.ReplaceAll(strings.TrimSpace(path), `\/`, "/")
	if path == "" {
		return ""
	}
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(path, "//") {
		return path
	}
	path = strings.TrimLeft(path, "/")
	path = strings.TrimPrefix(path, "storage/")
	return strings.TrimRight(storageURL, "/") + "/storage/" + path
}

package drive

import "google.golang.org/api/drive/v3"

// WebURL returns the browser link for a file, preferring the link Drive
// reported and falling back to the generic viewer URL.
func WebURL(file *drive.File) string {
	if file == nil {
		return ""
	}
	if file.WebViewLink != "" {
		return file.WebViewLink
	}
	if file.Id == "" {
		return ""
	}
	return "https://drive.google.com/file/d/" + file.Id + "/view"
}

package models

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// fileTypes maps lower-case extensions to a display label
var fileTypes = map[string]string{
	".doc":  "Microsoft Word Document",
	".docx": "Microsoft Word Document",
	".docm": "Microsoft Word Macro-Enabled Document",
	".dotm": "Microsoft Word Macro-Enabled Template",
	".xls":  "Microsoft Excel Spreadsheet",
	".xlsm": "Microsoft Excel Macro-Enabled Spreadsheet",
	".xltm": "Microsoft Excel Macro-Enabled Template",
	".ppt":  "Microsoft PowerPoint Presentation",
	".pptx": "Microsoft PowerPoint Presentation",
	".pptm": "Microsoft PowerPoint Macro-Enabled Presentation",
	".potm": "Microsoft PowerPoint Macro-Enabled Template",
	".sldm": "Microsoft PowerPoint Macro-Enabled Slide Show",
	".ppsm": "Microsoft PowerPoint Macro-Enabled Show",
	".odt":  "OpenDocument Text Document",
	".ods":  "OpenDocument Spreadsheet",
	".odp":  "OpenDocument Presentation",
	".pdf":  "PDF Document",
	".epub": "EPUB Document",
	".md":   "Markdown File",
	".txt":  "Plain Text File",
	".html": "HTML Document",
	".htm":  "HTML Document",
	".csv":  "Comma Separated Values File",
	".tsv":  "Tab Separated Values File",
	".json": "JSON File",
	".xml":  "XML File",
	".jpg":  "Image File",
	".jpeg": "Image File",
	".png":  "Image File",
	".svg":  "Scalable Vector Graphics",
	".psd":  "Adobe Photoshop Document",
	".ai":   "Adobe Illustrator Document",
	".indd": "Adobe InDesign Document",
	".mp3":  "mp3 Audio",
	".wav":  "WAV Audio",
	".aac":  "Advanced Audio Coding",
	".flac": "Free Lossless Audio Codec",
	".wma":  "Windows Media Audio",
	".mpga": "MPEG Audio",
	".mp4":  "MP4 Video",
	".avi":  "AVI Video",
	".mkv":  "Matroska Video",
	".mpg":  "MPEG Video",
	".mov":  "QuickTime Video",
	".wmv":  "Windows Media Video",
	".zip":  "Zip Archive",
	".rar":  "RAR Archive",
	".7z":   "7-Zip Archive",
	".tar":  "Tar Archive",
	".gz":   "Gzip Archive",
	".exe":  "Executable File",
	".dll":  "Dynamic Link Library",
}

// FileTypeLabel returns the display label for an extension.
// Unknown extensions fall back to the extension without its dot.
func FileTypeLabel(ext string) string {
	if ext == "" {
		return ""
	}
	if label, ok := fileTypes[strings.ToLower(ext)]; ok {
		return label
	}
	return strings.TrimPrefix(ext, ".")
}

// FriendlySize formats a byte count for display (1024-based units)
func FriendlySize(bytes int64) string {
	if bytes < 0 {
		return "invalid size"
	}
	return humanize.IBytes(uint64(bytes))
}

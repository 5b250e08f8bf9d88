package services

import (
  "path/filepath"
  "strings"

  "github.com/coursebridge/coursebridge-backend/internal/types"
)

var (
  documentExts     = map[string]bool{".doc": true, ".docx": true, ".txt": true, ".rtf": true, ".odt": true, ".md": true}
  presentationExts = map[string]bool{".ppt": true, ".pptx": true, ".key": true, ".odp": true}
  spreadsheetExts  = map[string]bool{".xls": true, ".xlsx": true, ".csv": true, ".ods": true}
  archiveExts      = map[string]bool{".zip": true, ".rar": true, ".7z": true, ".tar": true, ".gz": true}
  codeExts         = map[string]bool{".go": true, ".js": true, ".ts": true, ".py": true, ".java": true, ".c": true, ".cpp": true, ".h": true, ".rb": true, ".sh": true, ".html": true, ".css": true, ".json": true, ".xml": true, ".sql": true}
)

// ClassifyFileType buckets an uploaded binary by MIME type with a fixed
// precedence, falling back to filename-extension and MIME-substring
// matching before defaulting to OTHER.
func ClassifyFileType(mimeType, fileName string) string {
  mime := strings.ToLower(strings.TrimSpace(mimeType))
  switch {
  case strings.HasPrefix(mime, "video/"):
    return types.FileTypeVideo
  case strings.HasPrefix(mime, "audio/"):
    return types.FileTypeAudio
  case strings.HasPrefix(mime, "image/"):
    return types.FileTypeImage
  case mime == "application/pdf":
    return types.FileTypePDF
  }

  ext := strings.ToLower(filepath.Ext(fileName))
  switch {
  case documentExts[ext] || strings.Contains(mime, "word") || strings.Contains(mime, "text/"):
    return types.FileTypeDocument
  case presentationExts[ext] || strings.Contains(mime, "presentation"):
    return types.FileTypePresentation
  case spreadsheetExts[ext] || strings.Contains(mime, "sheet") || strings.Contains(mime, "excel") || strings.Contains(mime, "csv"):
    return types.FileTypeSpreadsheet
  case archiveExts[ext] || strings.Contains(mime, "zip") || strings.Contains(mime, "compressed") || strings.Contains(mime, "tar"):
    return types.FileTypeArchive
  case codeExts[ext] || strings.Contains(mime, "javascript") || strings.Contains(mime, "json") || strings.Contains(mime, "xml"):
    return types.FileTypeCode
  }
  return types.FileTypeOther
}

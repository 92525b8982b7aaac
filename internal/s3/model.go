package s3

// ScanFile is an uploaded scan of a signed paper document.
type ScanFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

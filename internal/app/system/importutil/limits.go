// internal/app/system/importutil/limits.go
package importutil

// Upload size and row limits for bulk locker imports.
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxRows       = 20000
)

package core

import "fmt"

// FormatSize renders a byte count with binary units, one decimal place
// above bytes (e.g. "512 B", "1.5 KB", "3.2 GB"). Negative sizes render as "0 B".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 5; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatMB renders a byte count as whole megabytes, the unit used for
// freed-memory reports (e.g. "Freed: 412 MB").
func FormatMB(bytes uint64) string {
	return fmt.Sprintf("%.0f MB", float64(bytes)/(1024*1024))
}

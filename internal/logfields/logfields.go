// Package logfields defines canonical log field names so attribute keys do
// not drift across packages.
package logfields

import "log/slog"

const (
	KeySource     = "source"
	KeyContainer  = "container"
	KeyLoadID     = "load_id"
	KeyPath       = "path"
	KeyAttempt    = "attempt"
	KeyBytes      = "bytes"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Source(s string) slog.Attr      { return slog.String(KeySource, s) }
func Container(id string) slog.Attr  { return slog.String(KeyContainer, id) }
func LoadID(id string) slog.Attr     { return slog.String(KeyLoadID, id) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Attempt(n int) slog.Attr        { return slog.Int(KeyAttempt, n) }
func Bytes(n int) slog.Attr          { return slog.Int(KeyBytes, n) }
func Method(m string) slog.Attr      { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr      { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr  { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr  { return slog.String(KeyRemoteAddr, a) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

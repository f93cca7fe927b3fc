//go:build !ORT
// +build !ORT

package embedding

import "github.com/knights-analytics/hugot"

// newSession creates a pure Go inference session (see session_ort.go for the
// onnxruntime-backed session with accelerator support).
func newSession() (*hugot.Session, string, error) {
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, "", err
	}
	return session, "cpu", nil
}

//go:build ORT
// +build ORT

package embedding

import (
	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
)

// newSession creates an onnxruntime-backed inference session, on CUDA when
// available and otherwise on CPU. Build with -tags ORT and the onnxruntime
// shared library installed.
func newSession() (*hugot.Session, string, error) {
	session, err := hugot.NewORTSession(options.WithCuda(map[string]string{
		"device_id": "0",
	}))
	if err == nil {
		return session, "cuda", nil
	}

	session, err = hugot.NewORTSession()
	if err != nil {
		return nil, "", err
	}
	return session, "cpu", nil
}

package offline

import (
	"bytes"
	"io"
	"net/http"
	"ponydiary/internal/structures"
	"ponydiary/internal/web"
	"strconv"
)

// EmbeddedOrigin names the in-process shell when offline.origin is empty.
// The .invalid TLD never resolves, so nothing outside the process answers it.
const EmbeddedOrigin = "http://shell.ponydiary.invalid"

// NewNetwork builds the transport used for origin fetches: the embedded shell
// when no origin is configured, otherwise HTTP bounded by fetchTimeout.
func NewNetwork(conf *structures.Config) http.RoundTripper {
	if conf.Offline.Origin == "" {
		return NewHandlerNetwork(web.Handler())
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ResponseHeaderTimeout = conf.Offline.FetchTimeout
	return t
}

// handlerNetwork answers requests by calling an http.Handler directly.
type handlerNetwork struct {
	handler http.Handler
}

func NewHandlerNetwork(handler http.Handler) http.RoundTripper {
	return &handlerNetwork{handler: handler}
}

func (n *handlerNetwork) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	bw := &bufferedWriter{header: make(http.Header)}
	n.handler.ServeHTTP(bw, req)
	if req.Body != nil {
		req.Body.Close()
	}
	return bw.response(req), nil
}

type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(status int) {
	if bw.status == 0 {
		bw.status = status
	}
}

func (bw *bufferedWriter) Write(p []byte) (int, error) {
	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	return bw.body.Write(p)
}

func (bw *bufferedWriter) response(req *http.Request) *http.Response {
	status := bw.status
	if status == 0 {
		status = http.StatusOK
	}
	header := bw.header.Clone()
	header.Set("Content-Length", strconv.Itoa(bw.body.Len()))
	return &http.Response{
		Status:        strconv.Itoa(status) + " " + http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(bw.body.Bytes())),
		ContentLength: int64(bw.body.Len()),
		Request:       req,
	}
}

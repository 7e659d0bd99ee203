package offline

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"
)

const maxCachedBodySize = 16 << 20

// StoredResponse is a replayable copy of a network response.
type StoredResponse struct {
	URL      string      `json:"url"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"stored_at"`
}

// captureResponse buffers resp's body, leaving resp readable for the caller.
// A body over maxCachedBodySize, or one that fails to read, is handed back
// as received and not captured.
func captureResponse(resp *http.Response) (*StoredResponse, error) {
	orig := resp.Body
	body, err := io.ReadAll(io.LimitReader(orig, maxCachedBodySize+1))
	if err == nil && len(body) > maxCachedBodySize {
		err = errBodyTooLarge
	}
	if err != nil {
		// orig still holds the unread remainder or the read error.
		resp.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(body), orig), orig}
		return nil, err
	}
	orig.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	url := ""
	if resp.Request != nil {
		url = resp.Request.URL.String()
	}
	return &StoredResponse{
		URL:      url,
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now().UTC(),
	}, nil
}

func (s *StoredResponse) toHTTP(req *http.Request) *http.Response {
	header := s.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set("Content-Length", strconv.Itoa(len(s.Body)))
	return &http.Response{
		Status:        strconv.Itoa(s.Status) + " " + http.StatusText(s.Status),
		StatusCode:    s.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(s.Body)),
		ContentLength: int64(len(s.Body)),
		Request:       req,
	}
}

const offlineNoticeBody = `<h3>🐴 Offline</h3><p>Please check your network connection.</p>`

// offlineNotice is returned instead of a transport error when the network is unreachable.
func offlineNotice(req *http.Request) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Content-Length", strconv.Itoa(len(offlineNoticeBody)))
	return &http.Response{
		Status:        strconv.Itoa(http.StatusServiceUnavailable) + " " + http.StatusText(http.StatusServiceUnavailable),
		StatusCode:    http.StatusServiceUnavailable,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader([]byte(offlineNoticeBody))),
		ContentLength: int64(len(offlineNoticeBody)),
		Request:       req,
	}
}

package middleware

// Response is handed to the "send" closure. A non-nil Error wins over Data.
type Response struct {
	Data  any
	Code  int
	Error error
}

// ErrorBody is the JSON shape of every failure response.
type ErrorBody struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

// StreamChunk carries one encoded chunk or the error that ended the stream.
type StreamChunk struct {
	Buf   *[]byte // pooled; handed back through StreamResponse.Recycle
	Error error
}

// StreamResponse is handed to the "sendStream" closure.
type StreamResponse struct {
	TotalCount  int64              // sent as X-Total-Count when >= 0
	ChunkChan   <-chan StreamChunk // closed by the producer
	Error       error              // failure before streaming started
	Code        int                // default 200
	ContentType string             // default application/json
	Filename    string             // set to send the body as an attachment
	Recycle     func(*[]byte)      // returns written buffers to their pool
}

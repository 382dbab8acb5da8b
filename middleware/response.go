package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"devdesk/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	keyRequestID  = "requestId"
	keyStartTime  = "start-time"
	keySend       = "send"
	keySendStream = "sendStream"

	HeaderRequestID = "X-Request-Id"
)

func logResponseError(c *gin.Context, log *zap.Logger, code int, err error) {
	fields := []zap.Field{
		zap.String("request_id", c.GetString(keyRequestID)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", code),
		zap.Error(err),
	}
	if code >= http.StatusInternalServerError {
		log.Error("request failed", fields...)
		return
	}
	log.Info("request rejected", fields...)
}

func sendError(c *gin.Context, log *zap.Logger, code int, err error) {
	if code == 0 || code < http.StatusBadRequest {
		code = common.StatusCode(err)
	}
	logResponseError(c, log, code, err)
	c.AbortWithStatusJSON(code, ErrorBody{Error: common.PublicMessage(err)})
}

func send(c *gin.Context, log *zap.Logger) func(r Response) {
	return func(r Response) {
		if r.Error != nil {
			sendError(c, log, r.Code, r.Error)
			return
		}

		if r.Code == 0 {
			r.Code = http.StatusOK
		}
		c.Abort()
		c.JSON(r.Code, r.Data)
	}
}

// sendStream writes chunks as they arrive. Headers and status go out with
// the first chunk, so an error before that still produces a JSON error
// body; an error after it can only truncate the response.
func sendStream(c *gin.Context, log *zap.Logger) func(r StreamResponse) {
	return func(r StreamResponse) {
		if r.Error != nil {
			sendError(c, log, r.Code, r.Error)
			return
		}

		if r.Code == 0 {
			r.Code = http.StatusOK
		}
		if r.ContentType == "" {
			r.ContentType = "application/json; charset=utf-8"
		}

		writer := c.Writer
		requestID := c.GetString(keyRequestID)
		started := false
		written := 0

		for chunk := range r.ChunkChan {
			if chunk.Error != nil {
				if !started {
					sendError(c, log, 0, chunk.Error)
				} else {
					log.Error("stream aborted",
						zap.String("request_id", requestID),
						zap.String("path", c.Request.URL.Path),
						zap.Int("bytes_written", written),
						zap.Error(chunk.Error),
					)
				}
				drain(r)
				return
			}

			if chunk.Buf == nil {
				continue
			}

			if !started {
				c.Header("Content-Type", r.ContentType)
				if r.Filename != "" {
					c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", r.Filename))
				}
				if r.TotalCount >= 0 {
					c.Header("X-Total-Count", strconv.FormatInt(r.TotalCount, 10))
				}
				c.Status(r.Code)
				started = true
			}

			n, err := writer.Write(*chunk.Buf)
			written += n
			if r.Recycle != nil {
				r.Recycle(chunk.Buf)
			}
			if err != nil {
				log.Info("client went away",
					zap.String("request_id", requestID),
					zap.Error(err),
				)
				drain(r)
				return
			}
			writer.Flush()
		}

		if started {
			log.Debug("stream completed",
				zap.String("request_id", requestID),
				zap.Int("bytes_written", written),
				zap.Int64("runtime_ms", time.Since(getStartTime(c)).Milliseconds()),
			)
		}

		c.Abort()
	}
}

// drain empties the chunk channel so the producer can exit.
func drain(r StreamResponse) {
	for chunk := range r.ChunkChan {
		if chunk.Buf != nil && r.Recycle != nil {
			r.Recycle(chunk.Buf)
		}
	}
}

func getStartTime(c *gin.Context) time.Time {
	if value, exists := c.Get(keyStartTime); exists {
		if t, ok := value.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}

// RequestInit tags the request with an id and a start time.
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(keyRequestID, requestID)
		c.Set(keyStartTime, time.Now())
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// ResponseInit installs the "send" and "sendStream" closures used by handlers.
func ResponseInit(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(keySend, send(c, log))
		c.Set(keySendStream, sendStream(c, log))
		c.Next()
	}
}

// AccessLog writes one line per request once it has been served.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		log.Info("request",
			zap.String("request_id", c.GetString(keyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(getStartTime(c))),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// APINotFound answers unmatched /api paths with a JSON 404.
func APINotFound(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := common.RouteNotFound()
		logResponseError(c, log, http.StatusNotFound, err)
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorBody{
			Error: err.Message,
			Path:  c.Request.URL.Path,
		})
	}
}

package logging

import (
	"io"
	"log"
	"os"

	"github.com/gin-gonic/gin"
)

const logPath = "jira-bridge.log"

// Setup configures logging to write to both stdout and a log file and
// returns the file handle so the caller can close it on shutdown. Gin's
// default writers are pointed at the same sink.
func Setup() (*os.File, error) {
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, f)
	log.SetOutput(mw)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	gin.DefaultWriter = mw
	gin.DefaultErrorWriter = mw
	return f, nil
}

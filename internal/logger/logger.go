package logger

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

var Log = Logger{}

// Logger writes timestamped lines to the file named by KOBI_LOG. Without
// that variable every call is a no-op.
type Logger struct {
	isEnabled bool
	file      *os.File
	stream    chan string
	done      chan struct{}
	logger    *log.Logger
	layout    string
	mu        sync.Mutex
}

func (this *Logger) Start() {
	logfilename, exists := os.LookupEnv("KOBI_LOG")
	if !exists || logfilename == "" { this.isEnabled = false; return }

	file, err := os.OpenFile(logfilename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil { log.Printf("kobi: cannot open log %s: %v", logfilename, err); return }
	this.file = file

	this.logger = log.New(file, "", 0)
	this.layout = "2006-01-02 15:04:05.000"

	this.stream = make(chan string, 64)
	this.done = make(chan struct{})

	go func() {
		for message := range this.stream {
			this.log(message)
		}
		close(this.done)
	}()

	this.mu.Lock()
	this.isEnabled = true
	this.mu.Unlock()
}

func (this *Logger) log(message string) {
	now := time.Now().Format(this.layout)
	this.logger.Printf("%s %s", now, message)
}

func (this *Logger) send(message string) {
	this.mu.Lock()
	defer this.mu.Unlock()
	if !this.isEnabled { return }
	this.stream <- message
}

func (this *Logger) Info(args ...string) {
	this.send(strings.Join(args, " "))
}

func (this *Logger) Error(args ...string) {
	this.send("[error] " + strings.Join(args, " "))
}

// Stop flushes pending messages and closes the log file.
func (this *Logger) Stop() {
	this.mu.Lock()
	if !this.isEnabled { this.mu.Unlock(); return }
	this.isEnabled = false
	close(this.stream)
	this.mu.Unlock()

	<-this.done
	this.file.Close()
}

package broadcast

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"ummabot/internal/transport"
	"ummabot/pkg/logx"
)

type Config struct {
	Workers    int
	RatePerSec int
}

type jobKind int

const (
	jobContent jobKind = iota
	jobPassthrough
)

type job struct {
	id      string
	name    string
	kind    jobKind
	targets []transport.ChatTarget

	// content job
	text      string
	imagePath string

	// passthrough job
	ref transport.MessageRef
}

type JobStatus struct {
	ID        string
	Name      string
	Total     int
	Done      int
	Failed    int
	Failures  []transport.ChatTarget
	CreatedAt time.Time
	StartedAt time.Time
	DoneAt    time.Time
	Running   bool
}

type Service struct {
	mu sync.Mutex

	cfg     Config
	adapter transport.Adapter
	log     logx.Logger

	limiter *rate.Limiter
	queue   chan job
	stopCh  chan struct{}
	// stopDone is non-nil while a Stop() is in progress; it is closed when workers fully exit.
	stopDone chan struct{}

	statusMu sync.RWMutex
	status   map[string]*JobStatus

	runCtx    context.Context
	runCancel context.CancelFunc
	workerWG  sync.WaitGroup
}

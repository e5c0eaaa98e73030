package netlink

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"
)

const (
	defaultProbeInterval = time.Second
	defaultDialTimeout   = 2 * time.Second
)

// Dialer opens probe connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// ProbeLink treats a TCP address as reachable-means-connected. Probes run on
// a background goroutine started by Connect, so Connected never blocks.
type ProbeLink struct {
	address  string
	interval time.Duration
	timeout  time.Duration
	dialer   Dialer

	up   atomic.Bool
	kick chan struct{}
	once sync.Once
}

// ProbeOption configures a ProbeLink.
type ProbeOption func(*ProbeLink)

// WithInterval sets how often the address is probed.
func WithInterval(d time.Duration) ProbeOption {
	return func(l *ProbeLink) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithDialTimeout bounds each probe.
func WithDialTimeout(d time.Duration) ProbeOption {
	return func(l *ProbeLink) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithDialer replaces the network dialer.
func WithDialer(d Dialer) ProbeOption {
	return func(l *ProbeLink) {
		if d != nil {
			l.dialer = d
		}
	}
}

// NewProbeLink constructs a link that probes address (host:port).
func NewProbeLink(address string, opts ...ProbeOption) *ProbeLink {
	l := &ProbeLink{
		address:  address,
		interval: defaultProbeInterval,
		timeout:  defaultDialTimeout,
		dialer:   &net.Dialer{},
		kick:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Connect starts the probe loop on first use and requests an immediate
// probe. The loop stops when ctx is done.
func (l *ProbeLink) Connect(ctx context.Context) {
	l.once.Do(func() {
		threading.GoSafe(func() { l.run(ctx) })
	})
	select {
	case l.kick <- struct{}{}:
	default:
	}
}

// Connected implements Link.
func (l *ProbeLink) Connected() bool {
	return l.up.Load()
}

func (l *ProbeLink) run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.up.Store(false)
			return
		case <-l.kick:
		case <-ticker.C:
		}
		l.probe(ctx)
	}
}

func (l *ProbeLink) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	conn, err := l.dialer.DialContext(ctx, "tcp", l.address)
	if err != nil {
		if l.up.Swap(false) {
			logx.Infof("netlink: %s unreachable: %v", l.address, err)
		}
		return
	}
	_ = conn.Close()
	if !l.up.Swap(true) {
		logx.Infof("netlink: %s reachable", l.address)
	}
}

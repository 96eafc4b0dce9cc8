package sabertooth

import (
	"context"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/sabertooth/pkg/packet"
)

// Port is the byte transport of a line.
type Port interface {
	io.Writer
	// TryReadByte returns the next received byte without blocking.
	TryReadByte() (byte, bool)
}

// Serial is the protocol engine of a line.
type Serial struct {
	Port   Port
	Config Config

	lock     sync.Mutex
	receiver packet.Receiver
	request  request
	poll     *Timeout
}

// NewSerial creates a Serial over port.
func NewSerial(port Port, conf Config) *Serial {
	conf = conf.WithDefaults()
	s := &Serial{
		Port:   port,
		Config: conf,
		poll:   NewTimeout(conf.Clock, conf.PollInterval),
	}
	s.request.timeout = NewTimeout(conf.Clock, conf.Timeout)
	s.request.timeout.Expire()
	s.poll.Expire()
	return s
}

// PollInterval returns the current poll interval.
func (s *Serial) PollInterval() time.Duration {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.poll.Duration()
}

// SetPollInterval changes the poll interval. Infinite or zero disables polling.
func (s *Serial) SetPollInterval(d time.Duration) {
	s.lock.Lock()
	s.poll.SetDuration(d)
	s.lock.Unlock()
}

// GetTimeout returns the current reply timeout.
func (s *Serial) GetTimeout() time.Duration {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.request.timeout.Duration()
}

// SetGetTimeout changes the reply timeout. Infinite or zero waits forever.
func (s *Serial) SetGetTimeout(d time.Duration) {
	s.lock.Lock()
	s.request.timeout.SetDuration(d)
	s.lock.Unlock()
}

// Busy indicates a get request is armed or pending.
func (s *Serial) Busy() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.request.busy()
}

// Pending indicates a get request has been sent and not yet completed.
func (s *Serial) Pending() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.request.pending()
}

// Set sends a set command.
func (s *Serial) Set(address byte, crc bool, setType SetType, typ, number byte, value int) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.writeLocked(packet.NewSet(address, crc, byte(setType), typ, number, value))
}

// Write sends a raw command.
func (s *Serial) Write(address byte, cmd packet.Command, crc bool, data ...byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.writeLocked(&packet.Packet{Address: address, Command: cmd, CRC: crc, Data: data})
}

// AsyncGet arms a get request. It fails with ErrBusy if another request
// is armed or pending. With polling disabled, the request is sent
// immediately, otherwise it's sent by Poll.
func (s *Serial) AsyncGet(req GetRequest) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.asyncGetLocked(req)
}

func (s *Serial) asyncGetLocked(req GetRequest) error {
	if s.request.busy() {
		return ErrBusy
	}
	s.request.arm(req)
	if !s.poll.CanExpire() {
		if err := s.sendLocked(); err != nil {
			s.request.done(GetError, err)
			return err
		}
	}
	return nil
}

// Poll advances the outstanding request without blocking.
// It returns true when the request completes, with the Result.
func (s *Serial) Poll() (Result, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	switch s.request.state {
	case statePending:
		if s.request.expired() {
			glog.V(2).Infof("GET %d %c%d timed out", s.request.Address, s.request.Type, s.request.Number)
			return s.completeLocked(GetTimedOut, ErrTimedOut), true
		}
		if !s.receiveLocked() {
			return Result{}, false
		}
		reply := s.receiver.Reply()
		glog.V(2).Infof("RX %s", reply)
		req := &s.request.GetRequest
		if reply.Address != req.Address ||
			reply.Code != packet.ReplyGet ||
			reply.CRC != req.CRC ||
			!reply.Matches(req.Flags(), req.Type, req.Number) {
			glog.Warningf("reply %s mismatch request %d %c%d", reply, req.Address, req.Type, req.Number)
			s.flushLocked()
			return s.completeLocked(GetError, ErrMismatch), true
		}
		return s.completeLocked(reply.Value, nil), true
	case stateArmed:
		if s.poll.Expired() {
			s.poll.Reset()
			if err := s.sendLocked(); err != nil {
				return s.completeLocked(GetError, err), true
			}
		}
	}
	return Result{}, false
}

// Get sends a get request as soon as possible and waits for the Result.
// It returns GetBusy and ErrBusy if another request is in progress.
// Canceling ctx completes the request with GetError and ctx.Err(),
// so the line accepts new requests right away.
func (s *Serial) Get(ctx context.Context, req GetRequest) (int, error) {
	s.lock.Lock()
	s.poll.Expire()
	err := s.asyncGetLocked(req)
	seq := s.request.seq
	s.lock.Unlock()
	if err != nil {
		return sentinelOf(err), err
	}
	for {
		if res, ok := s.Poll(); ok {
			return res.Value, res.Err
		}
		select {
		case <-ctx.Done():
			return s.abort(seq, ctx.Err())
		default:
			runtime.Gosched()
		}
	}
}

// abort completes the request armed as seq, unless it's already done.
func (s *Serial) abort(seq uint64, err error) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.request.busy() && s.request.seq == seq {
		glog.V(2).Infof("GET %d %c%d aborted: %v", s.request.Address, s.request.Type, s.request.Number, err)
		s.completeLocked(GetError, err)
	}
	return GetError, err
}

func (s *Serial) writeLocked(pkt *packet.Packet) error {
	glog.V(2).Infof("TX %s", pkt)
	_, err := pkt.WriteTo(s.Port)
	return err
}

func (s *Serial) sendLocked() error {
	s.request.sent()
	return s.writeLocked(s.request.Packet())
}

func (s *Serial) completeLocked(value int, err error) Result {
	s.receiver.Reset()
	return s.request.done(value, err)
}

func (s *Serial) receiveLocked() bool {
	for !s.receiver.Ready() {
		b, ok := s.Port.TryReadByte()
		if !ok {
			return false
		}
		s.receiver.Read(b)
	}
	return true
}

// flushLocked drops all bytes already received on the line.
func (s *Serial) flushLocked() {
	for {
		if _, ok := s.Port.TryReadByte(); !ok {
			return
		}
	}
}

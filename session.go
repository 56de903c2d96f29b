package motionlink

import (
	"fmt"
	"io"
	"net"
)

// Client talks the register protocol to a fixed remote endpoint. Every
// exchange is one-shot: dial, send one frame, read one frame, close. No
// connection is ever reused across exchanges, which is the protocol's only
// defense against response desync; there are no retries and no resync.
//
// Client methods are synchronous and block until the remote answers or the
// transport fails. Transport failures are not recoverable here and wrap up
// to the caller.
type Client struct {
	addr string
}

// NewClient returns a client bound to a static address, e.g. "10.0.0.5:1400".
func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

// roundTrip runs one complete session: a fresh connection, one request
// frame out, one response frame in, then close on every exit path.
func (c *Client) roundTrip(req Frame) (rsp Frame, err error) {
	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		err = fmt.Errorf("dial %s: %w", c.addr, err)
		return
	}
	defer conn.Close()

	buf := req.marshal()
	if _, err = conn.Write(buf[:]); err != nil {
		err = fmt.Errorf("send %v: %w", req.Op, err)
		return
	}

	var rbuf [FrameSize]byte
	if _, err = io.ReadFull(conn, rbuf[:]); err != nil {
		err = fmt.Errorf("recv after %v: %w", req.Op, err)
		return
	}
	return unmarshalFrame(rbuf[:])
}

// exchange is roundTrip plus a reply-opcode check.
func (c *Client) exchange(req Frame, want Opcode) (Frame, error) {
	rsp, err := c.roundTrip(req)
	if err != nil {
		return rsp, err
	}
	if rsp.Op != want {
		return rsp, fmt.Errorf("unexpected reply %v to %v (want %v)", rsp.Op, req.Op, want)
	}
	return rsp, nil
}

// SetVar writes val to register idx using the two-session handshake: a
// write select, then a write commit carrying the encoded value. Values
// above the encoder's 24-bit faithful range are truncated on the wire; see
// Frame.EncodeValue. An out-of-range val fails before anything is sent.
func (c *Client) SetVar(idx uint8, val int64) error {
	commit := Frame{Op: OpWriteCommit, Arg: idx}
	if err := commit.EncodeValue(val); err != nil {
		return fmt.Errorf("set var %d: %w", idx, err)
	}
	if _, err := c.exchange(Frame{Op: OpWriteSelect, Arg: idx}, OpWriteSelectAck); err != nil {
		return fmt.Errorf("set var %d: %w", idx, err)
	}
	if _, err := c.exchange(commit, OpWriteCommitAck); err != nil {
		return fmt.Errorf("set var %d: %w", idx, err)
	}
	return nil
}

// QueryVar reads register idx and releases it: a read session whose reply
// carries the value, then a release session whose reply is discarded.
func (c *Client) QueryVar(idx uint8) (int32, error) {
	rsp, err := c.exchange(Frame{Op: OpRead, Arg: idx}, OpReadReply)
	if err != nil {
		return 0, fmt.Errorf("query var %d: %w", idx, err)
	}
	if _, err := c.exchange(Frame{Op: OpReadRelease, Arg: idx}, OpReadReleaseAck); err != nil {
		return 0, fmt.Errorf("release var %d: %w", idx, err)
	}
	return rsp.DecodeValue(), nil
}

package motionlink

import "go.uber.org/zap"

// A Handler answers request frames for the register server. ServeFrame
// handles one request and returns the reply to send, or nil for none, and
// last=true when the session should close after the reply.
type Handler interface {
	ServeFrame(f Frame) (rsp *Frame, last bool)
}

type HandlerFunc func(f Frame) (*Frame, bool)

func (fn HandlerFunc) ServeFrame(f Frame) (*Frame, bool) {
	return fn(f)
}

// VarTableHandler serves the register protocol over a VarTable: reads
// reply with the full 32-bit register value, a read release acks and ends
// the session, and the two-step write handshake stores the decoded value.
// Unknown opcodes are logged and skipped rather than failing the session.
type VarTableHandler struct {
	Table *VarTable
}

func (h *VarTableHandler) ServeFrame(f Frame) (*Frame, bool) {
	switch f.Op {
	case OpRead:
		val, err := h.Table.Get(f.Arg)
		if err != nil {
			l.Warn("read rejected", zap.Error(err))
			return nil, true
		}
		rsp := replyFrame(OpReadReply, f.Arg, val)
		return &rsp, false

	case OpReadRelease:
		rsp := replyFrame(OpReadReleaseAck, f.Arg, 0)
		return &rsp, true

	case OpWriteSelect:
		rsp := replyFrame(OpWriteSelectAck, f.Arg, 0)
		return &rsp, false

	case OpWriteCommit:
		if err := h.Table.Set(f.Arg, f.DecodeValue()); err != nil {
			l.Warn("write rejected", zap.Error(err))
			return nil, true
		}
		rsp := replyFrame(OpWriteCommitAck, f.Arg, 0)
		return &rsp, false

	default:
		l.Warn("unknown opcode skipped", zap.Stringer("op", f.Op))
		return nil, false
	}
}

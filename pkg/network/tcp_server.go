package network

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"indexdb/pkg/common"
	"indexdb/pkg/core"
	"indexdb/pkg/protocol"
	"indexdb/pkg/query"

	"go.uber.org/zap"
)

// TCPServer exposes an Engine over the binary protocol. The engine has no
// locking of its own, so every request runs under mu.
type TCPServer struct {
	engine *core.Engine
	mu     *sync.Mutex
	logger *zap.Logger

	lnMu     sync.Mutex
	listener net.Listener
	closed   bool
}

// NewTCPServer serves engine. mu is shared with any other front-end that
// touches the same engine; pass nil when the TCP server is the only one.
func NewTCPServer(engine *core.Engine, mu *sync.Mutex, logger *zap.Logger) *TCPServer {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TCPServer{engine: engine, mu: mu, logger: logger.Named("tcp")}
}

func (s *TCPServer) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve accepts connections on l until Close is called.
func (s *TCPServer) Serve(l net.Listener) error {
	s.lnMu.Lock()
	if s.closed {
		s.lnMu.Unlock()
		return l.Close()
	}
	s.listener = l
	s.lnMu.Unlock()
	s.logger.Info("listening", zap.String("addr", l.Addr().String()))

	for {
		conn, err := l.Accept()
		if err != nil {
			s.lnMu.Lock()
			closed := s.closed
			s.lnMu.Unlock()
			if closed || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("accept error", zap.Error(err))
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *TCPServer) Close() error {
	s.lnMu.Lock()
	defer s.lnMu.Unlock()
	s.closed = true
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *TCPServer) handleConn(conn net.Conn) {
	defer conn.Close()
	log := s.logger.With(zap.String("remote", conn.RemoteAddr().String()))

	for {
		req, err := protocol.Decode(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("decode error", zap.Error(err))
			}
			return
		}

		op, key, val := s.dispatch(req)
		if err := protocol.Encode(conn, op, key, val); err != nil {
			log.Debug("write error", zap.Error(err))
			return
		}
	}
}

func (s *TCPServer) dispatch(req *protocol.Packet) (byte, []byte, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Op {
	case protocol.OpInsert:
		rec, err := protocol.DecodeRecord(req.Value)
		if err != nil {
			return errResp(err)
		}
		pos := s.engine.InsertRecord(rec)
		return protocol.RespOK, nil, protocol.Uint32Bytes(pos)

	case protocol.OpFind:
		id, err := protocol.BytesInt64(req.Key)
		if err != nil {
			return errResp(err)
		}
		rec, found, cmp := s.engine.FindByID(id)
		if !found {
			return protocol.RespNotFound, nil, protocol.Uint32Bytes(cmp)
		}
		return protocol.RespVal, nil, protocol.EncodeRecords([]common.Record{rec}, cmp)

	case protocol.OpDelete:
		id, err := protocol.BytesInt64(req.Key)
		if err != nil {
			return errResp(err)
		}
		if !s.engine.DeleteByID(id) {
			return protocol.RespNotFound, nil, nil
		}
		return protocol.RespOK, nil, nil

	case protocol.OpRange:
		// Key=lo, Value=hi
		lo, err1 := protocol.BytesInt64(req.Key)
		hi, err2 := protocol.BytesInt64(req.Value)
		if err := errors.Join(err1, err2); err != nil {
			return errResp(err)
		}
		records, cmp := s.engine.RangeByID(lo, hi)
		return protocol.RespVal, nil, protocol.EncodeRecords(records, cmp)

	case protocol.OpPrefix:
		records, cmp := s.engine.PrefixByLast(string(req.Value))
		return protocol.RespVal, nil, protocol.EncodeRecords(records, cmp)

	case protocol.OpQuery:
		stmt, err := query.Parse(string(req.Value))
		if err != nil {
			return errResp(err)
		}
		res := query.Execute(s.engine, stmt)
		return protocol.RespVal, queryMeta(res), protocol.EncodeRecords(res.Records, res.Comparisons)

	default:
		return errResp(fmt.Errorf("unknown op 0x%02x", req.Op))
	}
}

// queryMeta packs the non-row parts of a query result: [Deleted 1B] [Position 4B].
func queryMeta(res query.Result) []byte {
	meta := make([]byte, 1, 5)
	if res.Deleted {
		meta[0] = 1
	}
	return append(meta, protocol.Uint32Bytes(res.Position)...)
}

func errResp(err error) (byte, []byte, []byte) {
	return protocol.RespErr, nil, []byte(err.Error())
}

package client

import (
	"errors"
	"fmt"
	"net"
	"time"

	"indexdb/pkg/common"
	"indexdb/pkg/protocol"
	"indexdb/pkg/query"
)

var ErrUnexpectedResponse = errors.New("unexpected response")

type Client struct {
	conn    net.Conn
	addr    string
	timeout time.Duration
}

func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:    conn,
		addr:    addr,
		timeout: 5 * time.Second,
	}, nil
}

// Insert returns the heap position assigned to rec.
func (c *Client) Insert(rec common.Record) (int, error) {
	pkg, err := c.roundTrip(protocol.OpInsert, nil, protocol.EncodeRecord(rec), false)
	if err != nil {
		return 0, err
	}
	if pkg.Op != protocol.RespOK {
		return 0, unexpected(pkg)
	}
	return protocol.BytesUint32(pkg.Value)
}

// Find returns the record for id, whether it exists, and the comparison count.
func (c *Client) Find(id int64) (common.Record, bool, int, error) {
	pkg, err := c.roundTrip(protocol.OpFind, protocol.Int64Bytes(id), nil, true)
	if err != nil {
		return common.Record{}, false, 0, err
	}

	switch pkg.Op {
	case protocol.RespVal:
		recs, cmp, err := protocol.DecodeRecords(pkg.Value)
		if err != nil {
			return common.Record{}, false, 0, err
		}
		if len(recs) != 1 {
			return common.Record{}, false, 0, fmt.Errorf("%w: %d records for one id", ErrUnexpectedResponse, len(recs))
		}
		return recs[0], true, cmp, nil
	case protocol.RespNotFound:
		cmp, err := protocol.BytesUint32(pkg.Value)
		return common.Record{}, false, cmp, err
	default:
		return common.Record{}, false, 0, unexpected(pkg)
	}
}

func (c *Client) Delete(id int64) (bool, error) {
	pkg, err := c.roundTrip(protocol.OpDelete, protocol.Int64Bytes(id), nil, false)
	if err != nil {
		return false, err
	}
	switch pkg.Op {
	case protocol.RespOK:
		return true, nil
	case protocol.RespNotFound:
		return false, nil
	default:
		return false, unexpected(pkg)
	}
}

func (c *Client) Range(lo, hi int64) ([]common.Record, int, error) {
	return c.records(protocol.OpRange, protocol.Int64Bytes(lo), protocol.Int64Bytes(hi))
}

func (c *Client) Prefix(prefix string) ([]common.Record, int, error) {
	return c.records(protocol.OpPrefix, nil, []byte(prefix))
}

// Query runs one statement on the server. Syntax errors come back as errors.
func (c *Client) Query(q string) (query.Result, error) {
	pkg, err := c.roundTrip(protocol.OpQuery, nil, []byte(q), false)
	if err != nil {
		return query.Result{}, err
	}
	if pkg.Op != protocol.RespVal {
		return query.Result{}, unexpected(pkg)
	}
	if len(pkg.Key) < 5 {
		return query.Result{}, fmt.Errorf("%w: short query header", ErrUnexpectedResponse)
	}

	var res query.Result
	res.Deleted = pkg.Key[0] == 1
	if res.Position, err = protocol.BytesUint32(pkg.Key[1:]); err != nil {
		return res, err
	}
	res.Records, res.Comparisons, err = protocol.DecodeRecords(pkg.Value)
	return res, err
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) records(op byte, key, val []byte) ([]common.Record, int, error) {
	pkg, err := c.roundTrip(op, key, val, true)
	if err != nil {
		return nil, 0, err
	}
	if pkg.Op != protocol.RespVal {
		return nil, 0, unexpected(pkg)
	}
	return protocol.DecodeRecords(pkg.Value)
}

// roundTrip sends one request and reads its response. A failed write is
// retried once on a fresh connection; a failed read is retried only for
// requests that are safe to repeat.
func (c *Client) roundTrip(op byte, key, val []byte, idempotent bool) (*protocol.Packet, error) {
	c.conn.SetDeadline(time.Now().Add(c.timeout))
	if err := protocol.Encode(c.conn, op, key, val); err != nil {
		return c.reconnectAndRetry(op, key, val)
	}

	pkg, err := protocol.Decode(c.conn)
	if err != nil {
		if idempotent {
			return c.reconnectAndRetry(op, key, val)
		}
		return nil, err
	}
	return pkg, nil
}

func (c *Client) reconnectAndRetry(op byte, key, val []byte) (*protocol.Packet, error) {
	c.conn.Close()
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.conn.SetDeadline(time.Now().Add(c.timeout))

	// Re-send
	if err := protocol.Encode(c.conn, op, key, val); err != nil {
		return nil, err
	}
	// Re-read
	return protocol.Decode(c.conn)
}

func unexpected(pkg *protocol.Packet) error {
	if pkg.Op == protocol.RespErr {
		return fmt.Errorf("server: %s", string(pkg.Value))
	}
	return fmt.Errorf("%w: op 0x%02x", ErrUnexpectedResponse, pkg.Op)
}

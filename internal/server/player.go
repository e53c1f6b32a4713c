package server

import (
	"bufio"
	"net"
	"sync"
	"time"

	"wam-game/internal/network"
)

// maxLineBytes bounds a single inbound protocol line
const maxLineBytes = 1024

// Player is one accepted connection. Its listener goroutine owns reads;
// writes are shared and serialized by mu.
type Player struct {
	Index int

	conn   net.Conn
	reader *bufio.Scanner

	mu     sync.Mutex
	writer *bufio.Writer

	closeOnce sync.Once
	closeErr  error
}

func newPlayer(index int, conn net.Conn) *Player {
	reader := bufio.NewScanner(conn)
	reader.Buffer(make([]byte, 0, 256), maxLineBytes)
	return &Player{
		Index:  index,
		conn:   conn,
		reader: reader,
		writer: bufio.NewWriter(conn),
	}
}

// Send writes one message line and flushes it
func (p *Player) Send(msg *network.Message) error {
	return p.sendLine(msg.Encode())
}

func (p *Player) sendLine(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.writer.WriteString(line + "\n"); err != nil {
		return err
	}
	return p.writer.Flush()
}

func (p *Player) RemoteAddr() net.Addr {
	return p.conn.RemoteAddr()
}

// closeRead stops inbound traffic while leaving the connection writable
func (p *Player) closeRead() {
	if tcp, ok := p.conn.(*net.TCPConn); ok {
		_ = tcp.CloseRead()
	}
}

// interrupt wakes any blocked read or write
func (p *Player) interrupt() {
	_ = p.conn.SetDeadline(time.Now())
}

// allowWrites lets writes proceed again until the deadline
func (p *Player) allowWrites(deadline time.Time) {
	_ = p.conn.SetWriteDeadline(deadline)
}

// Close closes the connection. Later calls return the first result.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.conn.Close()
	})
	return p.closeErr
}

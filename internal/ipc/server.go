package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/glasspane/internal/app"
	"github.com/1broseidon/glasspane/internal/bridge"
)

// ErrAlreadyRunning is returned by Start when another instance answers on
// the socket.
var ErrAlreadyRunning = errors.New("glasspane is already running")

// Server accepts commands from other glasspane processes. Commands never
// touch UI state: they are forwarded to the bridge and handled by the UI
// goroutine like tray clicks.
type Server struct {
	socketPath string
	listener   net.Listener
	bridge     *bridge.Bridge
	logger     *slog.Logger
	startTime  time.Time

	statusMu sync.RWMutex
	status   StatusData

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server for socketPath that forwards to b.
func NewServer(socketPath string, b *bridge.Bridge, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		socketPath: socketPath,
		bridge:     b,
		logger:     logger,
		startTime:  time.Now(),
		status:     StatusData{Visible: true},
	}
}

// Start begins listening for IPC connections. A socket left behind by a
// crashed instance is removed; a live one yields ErrAlreadyRunning.
func (s *Server) Start() error {
	if conn, err := net.DialTimeout("unix", s.socketPath, 500*time.Millisecond); err == nil {
		conn.Close()
		return ErrAlreadyRunning
	}
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Windows ignores the mode; the socket lives in a per-user directory.
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		s.logger.Debug("could not restrict socket permissions", "error", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

// Publish records the UI state reported by GET_STATUS.
func (s *Server) Publish(st app.State) {
	data := StatusData{
		WindowCount: len(st.Windows),
		Visible:     st.Visibility == app.Visible,
	}
	if st.Selected >= 0 && st.Selected < len(st.Windows) {
		data.Selected = st.Windows[st.Selected].Title
	}

	s.statusMu.Lock()
	s.status = data
	s.statusMu.Unlock()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one request line.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", string(req.Command))

	switch req.Command {
	case CommandShow:
		return s.forward(bridge.Show)
	case CommandHide:
		return s.forward(bridge.Hide)
	case CommandRefresh:
		return s.forward(bridge.Refresh)
	case CommandExit:
		return s.forward(bridge.Exit)
	case CommandGetStatus:
		return s.handleGetStatus()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) forward(c bridge.Command) *Response {
	if !s.bridge.Send(c) {
		return NewErrorResponse("shutting down")
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	s.statusMu.RLock()
	status := s.status
	s.statusMu.RUnlock()
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop shuts down the IPC server and removes its socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

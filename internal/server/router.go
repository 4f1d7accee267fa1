// Package server implements the line-based TCP protocol the SDK client
// speaks. One command per line; string values travel JSON-encoded so they
// can carry spaces and the attendance list's ";;" separator safely.
package server

import (
	"bufio"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/hronline/attendance-store/pkg/prefs"
)

type Router struct {
	store prefs.Store
	cert  *tls.Certificate

	mu       sync.Mutex
	listener net.Listener
}

func NewRouter(s prefs.Store) *Router {
	return &Router{store: s}
}

// SetCertificate sets the TLS certificate for the router.
func (r *Router) SetCertificate(cert tls.Certificate) {
	r.cert = &cert
}

// Listen starts the TCP server and blocks until Stop is called or the
// listener fails.
func (r *Router) Listen(port string) error {
	var listener net.Listener
	var err error

	if r.cert != nil {
		config := &tls.Config{Certificates: []tls.Certificate{*r.cert}}
		listener, err = tls.Listen("tcp", ":"+port, config)
	} else {
		listener, err = net.Listen("tcp", ":"+port)
	}
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.listener = listener
	r.mu.Unlock()
	defer listener.Close()

	semaphore := make(chan struct{}, 100) // Max 100 concurrent connections

	for {
		conn, err := listener.Accept()
		if err != nil {
			if strings.Contains(err.Error(), "use of closed network connection") {
				return nil
			}
			continue
		}

		conn.SetDeadline(time.Now().Add(5 * time.Minute))

		go func(c net.Conn) {
			semaphore <- struct{}{}
			defer func() {
				<-semaphore
				c.Close()
			}()
			r.handleConnection(c)
		}(conn)
	}
}

// Stop closes the listener, unblocking Listen.
func (r *Router) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener != nil {
		r.listener.Close()
	}
}

// Addr returns the bound listener address, or nil before Listen has bound.
func (r *Router) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

func (r *Router) handleConnection(conn net.Conn) {
	reader := bufio.NewReader(conn)

	for {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))

		line, err := reader.ReadString('\n')
		if err != nil {
			return // Connection closed or timeout
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) < 1 {
			continue
		}

		switch strings.ToUpper(parts[0]) {
		case "GET":
			if len(parts) < 4 {
				continue
			}
			val, err := r.store.Get(parts[1], parts[2], parts[3])
			if err != nil {
				fmt.Fprintln(conn, "ERR", err)
			} else {
				writeJSON(conn, val)
			}

		case "PUT":
			// The value is everything after the 4th word, JSON-encoded.
			// Split the raw line so spaces inside the value survive.
			fields := strings.SplitN(strings.TrimSpace(line), " ", 5)
			if len(fields) < 5 {
				continue
			}
			var val string
			if err := json.Unmarshal([]byte(fields[4]), &val); err != nil {
				fmt.Fprintln(conn, "ERR invalid json value")
				continue
			}
			if err := r.store.Put(fields[1], fields[2], fields[3], val); err != nil {
				fmt.Fprintln(conn, "ERR", err)
			} else {
				fmt.Fprintln(conn, "OK")
			}

		case "DEL":
			if len(parts) < 4 {
				continue
			}
			if err := r.store.Delete(parts[1], parts[2], parts[3]); err != nil {
				fmt.Fprintln(conn, "ERR", err)
			} else {
				fmt.Fprintln(conn, "OK")
			}

		case "LIST_OWNERS":
			list, err := r.store.Owners()
			if err != nil {
				fmt.Fprintln(conn, "ERR", err)
			} else {
				writeJSON(conn, list)
			}

		case "LIST_NS":
			if len(parts) < 2 {
				continue
			}
			list, err := r.store.Namespaces(parts[1])
			if err != nil {
				fmt.Fprintln(conn, "ERR", err)
			} else {
				writeJSON(conn, list)
			}

		case "DUMP":
			if len(parts) < 3 {
				continue
			}
			data, err := r.store.NamespaceStore(parts[1], parts[2])
			if err != nil {
				fmt.Fprintln(conn, "ERR", err)
			} else {
				writeJSON(conn, data)
			}

		case "DUMP_NS":
			if len(parts) < 2 {
				continue
			}
			data, err := r.store.DumpNamespace(parts[1])
			if err != nil {
				fmt.Fprintln(conn, "ERR", err)
			} else {
				writeJSON(conn, data)
			}

		case "MOVE":
			if len(parts) < 5 {
				continue
			}
			// MOVE src dst ns key
			if err := r.store.Move(parts[1], parts[2], parts[3], parts[4]); err != nil {
				fmt.Fprintln(conn, "ERR", err)
			} else {
				fmt.Fprintln(conn, "OK")
			}

		case "PING":
			fmt.Fprintln(conn, "PONG")

		case "QUIT":
			return
		}
	}
}

func writeJSON(conn net.Conn, v any) {
	res, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintln(conn, "ERR internal error")
		return
	}
	fmt.Fprintln(conn, "OK", string(res))
}

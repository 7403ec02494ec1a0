package cache

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varoOP/fliq/internal/domain"
)

// fakeRedis speaks enough RESP2 for RedisStorage: PING, GET, SET, DEL and
// SCAN. Anything else, including the client handshake, gets an ERR reply.
type fakeRedis struct {
	ln net.Listener

	mu   sync.Mutex
	data map[string]string
	oom  bool
}

func newFakeRedis(t *testing.T) *fakeRedis {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	f := &fakeRedis{ln: ln, data: map[string]string{}}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()

	return f
}

func (f *fakeRedis) url() string {
	return "redis://" + f.ln.Addr().String() + "/0"
}

func (f *fakeRedis) setOOM(oom bool) {
	f.mu.Lock()
	f.oom = oom
	f.mu.Unlock()
}

func (f *fakeRedis) serve(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	for {
		args, err := readCommand(r)
		if err != nil {
			return
		}
		f.reply(w, args)
		if err := w.Flush(); err != nil {
			return
		}
	}
}

func (f *fakeRedis) reply(w *bufio.Writer, args []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch strings.ToUpper(args[0]) {
	case "PING":
		w.WriteString("+PONG\r\n")

	case "GET":
		v, ok := f.data[args[1]]
		if !ok {
			w.WriteString("$-1\r\n")
			return
		}
		writeBulk(w, v)

	case "SET":
		if f.oom {
			w.WriteString("-OOM command not allowed when used memory > 'maxmemory'.\r\n")
			return
		}
		f.data[args[1]] = args[2]
		w.WriteString("+OK\r\n")

	case "DEL":
		n := 0
		for _, k := range args[1:] {
			if _, ok := f.data[k]; ok {
				delete(f.data, k)
				n++
			}
		}
		fmt.Fprintf(w, ":%d\r\n", n)

	case "SCAN":
		prefix := ""
		for i := 2; i+1 < len(args); i += 2 {
			if strings.EqualFold(args[i], "MATCH") {
				prefix = strings.TrimSuffix(args[i+1], "*")
			}
		}

		keys := []string{}
		for k := range f.data {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		w.WriteString("*2\r\n")
		writeBulk(w, "0")
		fmt.Fprintf(w, "*%d\r\n", len(keys))
		for _, k := range keys {
			writeBulk(w, k)
		}

	default:
		fmt.Fprintf(w, "-ERR unknown command '%s'\r\n", args[0])
	}
}

func writeBulk(w *bufio.Writer, s string) {
	fmt.Fprintf(w, "$%d\r\n%s\r\n", len(s), s)
}

func readCommand(r *bufio.Reader) ([]string, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(line, "*") {
		return nil, errors.New("expected array")
	}

	n, err := strconv.Atoi(line[1:])
	if err != nil || n < 1 {
		return nil, errors.New("bad array length")
	}

	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		header, err := readLine(r)
		if err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimPrefix(header, "$"))
		if err != nil {
			return nil, err
		}

		buf := make([]byte, size+2)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	server := newFakeRedis(t)

	s, err := NewRedisStorage(zerolog.Nop(), server.url())
	require.NoError(t, err)
	defer s.Close()

	t.Run("SetGetRemove", func(t *testing.T) {
		require.NoError(t, s.SetItem(ctx, "fliq_cache_a", []byte(`{"v":1}`)))

		v, ok, err := s.GetItem(ctx, "fliq_cache_a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `{"v":1}`, string(v))

		require.NoError(t, s.RemoveItem(ctx, "fliq_cache_a"))

		_, ok, err = s.GetItem(ctx, "fliq_cache_a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("KeysByPrefix", func(t *testing.T) {
		require.NoError(t, s.SetItem(ctx, Prefix+"tmdb_details_1", []byte("1")))
		require.NoError(t, s.SetItem(ctx, Prefix+"omdb_tt1", []byte("2")))
		require.NoError(t, s.SetItem(ctx, "fliq_search_history", []byte("[]")))

		keys, err := s.Keys(ctx, Prefix)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{Prefix + "tmdb_details_1", Prefix + "omdb_tt1"}, keys)
	})

	t.Run("OutOfMemoryIsQuotaExceeded", func(t *testing.T) {
		server.setOOM(true)
		defer server.setOOM(false)

		err := s.SetItem(ctx, Prefix+"big", []byte("x"))
		assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	})

	t.Run("StoreDropsRefusedWrites", func(t *testing.T) {
		store := NewStore(zerolog.Nop(), s)

		server.setOOM(true)
		store.Set(ctx, "dropped", "value", TTLOneDay)
		server.setOOM(false)

		var got string
		assert.False(t, store.Get(ctx, "dropped", &got))
	})
}

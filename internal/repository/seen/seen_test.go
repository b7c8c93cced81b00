package seen

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// checkSetSemantics runs the contract every Store has to meet.
func checkSetSemantics(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	for _, step := range []struct {
		id   string
		want bool
	}{
		{"A", true},
		{"B", true},
		{"A", false},
		{"C", true},
		{"B", false},
	} {
		got, err := s.Add(ctx, step.id)
		if err != nil {
			t.Fatalf("Add(%s): %v", step.id, err)
		}
		if got != step.want {
			t.Fatalf("Add(%s) = %v, want %v", step.id, got, step.want)
		}
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	checkSetSemantics(t, m)
	if m.Len() != 3 {
		t.Errorf("Len = %d", m.Len())
	}
}

func TestMemoryConcurrentAdd(t *testing.T) {
	m := NewMemory()
	var added int64
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if ok, _ := m.Add(context.Background(), fmt.Sprint(i)); ok {
					atomic.AddInt64(&added, 1)
				}
			}
		}()
	}
	wg.Wait()

	if added != 100 || m.Len() != 100 {
		t.Errorf("added = %d, Len = %d", added, m.Len())
	}
}

func TestLRU(t *testing.T) {
	l, err := NewLRU(10)
	if err != nil {
		t.Fatal(err)
	}
	checkSetSemantics(t, l)
}

func TestLRUEvictsOldest(t *testing.T) {
	l, err := NewLRU(2)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if ok, _ := l.Add(ctx, id); !ok {
			t.Fatalf("Add(%s) = false", id)
		}
	}
	if l.Len() != 2 {
		t.Errorf("Len = %d", l.Len())
	}
	if ok, _ := l.Add(ctx, "a"); !ok {
		t.Error("evicted id should be new again")
	}
	if ok, _ := l.Add(ctx, "c"); ok {
		t.Error("recent id reported as new")
	}

	if _, err := NewLRU(0); err == nil {
		t.Error("NewLRU(0): expected error")
	}
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := DialRedis(context.Background(), mr.Addr(), "", 0, "", 0)
	if err != nil {
		t.Fatalf("DialRedis: %v", err)
	}
	defer s.Close()

	checkSetSemantics(t, s)

	members, err := mr.Members(DefaultRedisKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 3 {
		t.Errorf("members = %v", members)
	}
	if ttl := mr.TTL(DefaultRedisKey); ttl != 0 {
		t.Errorf("TTL = %v, want none", ttl)
	}
}

func TestRedisTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedis(rdb, "test:seen", time.Hour)
	defer s.Close()

	ctx := context.Background()
	if ok, err := s.Add(ctx, "x"); err != nil || !ok {
		t.Fatalf("Add = %v, %v", ok, err)
	}
	if ttl := mr.TTL("test:seen"); ttl != time.Hour {
		t.Errorf("TTL = %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if ok, err := s.Add(ctx, "x"); err != nil || !ok {
		t.Fatalf("after expiry Add = %v, %v", ok, err)
	}
}

func TestRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := DialRedis(context.Background(), addr, "", 0, "", 0); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS seen_adverts`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO seen_adverts`).WithArgs("A").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO seen_adverts`).WithArgs("A").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO seen_adverts`).WithArgs("B").
		WillReturnError(fmt.Errorf("connection reset"))

	s, err := NewPostgres(context.Background(), db)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}

	ctx := context.Background()
	if ok, err := s.Add(ctx, "A"); err != nil || !ok {
		t.Errorf("first Add = %v, %v", ok, err)
	}
	if ok, err := s.Add(ctx, "A"); err != nil || ok {
		t.Errorf("second Add = %v, %v", ok, err)
	}
	if _, err := s.Add(ctx, "B"); err == nil {
		t.Error("expected insert error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default", cfg: Config{}},
		{name: "memory", cfg: Config{Backend: "Memory"}},
		{name: "lru", cfg: Config{Backend: "lru", Capacity: 5}},
		{name: "lru without capacity", cfg: Config{Backend: "lru"}, wantErr: true},
		{name: "redis", cfg: Config{Backend: "redis", RedisAddr: mr.Addr()}},
		{name: "redis without addr", cfg: Config{Backend: "redis"}, wantErr: true},
		{name: "postgres without dsn", cfg: Config{Backend: "postgres"}, wantErr: true},
		{name: "unknown", cfg: Config{Backend: "sqlite"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, closeFn, err := Open(ctx, tt.cfg, nil)
			if closeFn == nil {
				t.Fatal("close func is nil")
			}
			defer closeFn()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			checkSetSemantics(t, s)
		})
	}
}

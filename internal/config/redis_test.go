package config

import "testing"

func TestRedisOptionsBareAddress(t *testing.T) {
	cfg := &Config{RedisURL: "localhost:6379", RedisPassword: "secret", RedisDB: 2}
	opts, err := redisOptions(cfg)
	if err != nil {
		t.Fatalf("redisOptions: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestRedisOptionsFullURL(t *testing.T) {
	cfg := &Config{RedisURL: "redis://user:pw@example.com:6380/3"}
	opts, err := redisOptions(cfg)
	if err != nil {
		t.Fatalf("redisOptions: %v", err)
	}
	if opts.Addr != "example.com:6380" || opts.DB != 3 {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestRedisOptionsShortValue(t *testing.T) {
	// Exactly scheme-length strings must be treated as addresses, not
	// sliced as URLs.
	for _, addr := range []string{"rediss:/", "redis:/", "r", ""} {
		cfg := &Config{RedisURL: addr}
		opts, err := redisOptions(cfg)
		if err != nil {
			t.Fatalf("%q: %v", addr, err)
		}
		if opts.Addr != addr {
			t.Fatalf("%q: addr = %q", addr, opts.Addr)
		}
	}
}

func TestRedisOptionsMalformedURL(t *testing.T) {
	cfg := &Config{RedisURL: "redis://[::1"}
	if _, err := redisOptions(cfg); err == nil {
		t.Fatal("malformed URL must error")
	}
}

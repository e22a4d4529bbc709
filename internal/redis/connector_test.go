package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/goodneighbor/internal/logger"
)

func TestOptionsValidate(t *testing.T) {
	valid := DefaultOptions("localhost:6379")

	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Options) {}},
		{name: "no address", mutate: func(o *Options) { o.Addr = "" }, wantErr: "address"},
		{name: "no connect timeout", mutate: func(o *Options) { o.ConnectTimeout = 0 }, wantErr: "ConnectTimeout"},
		{name: "no retry interval", mutate: func(o *Options) { o.RetryInterval = -time.Second }, wantErr: "RetryInterval"},
		{name: "no max wait", mutate: func(o *Options) { o.MaxWait = 0 }, wantErr: "MaxWait"},
		{name: "no ping timeout", mutate: func(o *Options) { o.PingTimeout = 0 }, wantErr: "PingTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			err := o.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestConnect_GivesUpAfterTimeout(t *testing.T) {
	opts := DefaultOptions("127.0.0.1:1")
	opts.ConnectTimeout = 150 * time.Millisecond
	opts.RetryInterval = 20 * time.Millisecond
	opts.MaxWait = 40 * time.Millisecond
	opts.PingTimeout = 50 * time.Millisecond
	opts.DialTimeout = 50 * time.Millisecond

	start := time.Now()
	client, err := Connect(context.Background(), opts, logger.Nop())
	if err == nil {
		_ = client.Close()
		t.Fatal("expected an error connecting to a closed port")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Connect took %v, expected to stop near the connect timeout", elapsed)
	}
}

// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type ConnectivityReportEvent struct {
	State      string    `json:"state"`
	DeviceID   string    `json:"device_id,omitempty"`
	ReportedAt time.Time `json:"reported_at"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6380", "Redis address for streams")
	state := flag.String("state", "online", "online | offline")
	device := flag.String("device", "tablet-01", "device id")
	wait := flag.Duration("wait", 30*time.Second, "how long to wait for synced events")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := ConnectivityReportEvent{
		State:      *state,
		DeviceID:   *device,
		ReportedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Запоминаем хвост стрима синхронизации до публикации
	lastID := "$"
	if msgs, err := client.XRevRangeN(ctx, "stream:burn:synced", "+", "-", 1).Result(); err == nil && len(msgs) > 0 {
		lastID = msgs[0].ID
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:connectivity",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: stream:connectivity\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   State: %s (device %s)\n", event.State, event.DeviceID)

	if event.State != "online" {
		return
	}

	fmt.Printf("\nWaiting for synced operations in stream:burn:synced...\n")

	deadline := time.Now().Add(*wait)
	count := 0
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{"stream:burn:synced", lastID},
			Count:   50,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Printf("read failed: %v", err)
			continue
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}
				var synced map[string]interface{}
				if err := json.Unmarshal([]byte(dataStr), &synced); err != nil {
					continue
				}
				count++
				pretty, _ := json.MarshalIndent(synced, "", "  ")
				fmt.Printf("%s\n", pretty)
			}
		}
	}

	fmt.Printf("\n%d operation(s) synced\n", count)
}

//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/nbd-wtf/go-nostr"
	"github.com/redis/go-redis/v9"
)

type placeContent struct {
	Type     string `json:"type"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	name := flag.String("name", "North Dakota Heritage Center & State Museum", "Place name")
	lat := flag.Float64("lat", 46.81915362955226, "Latitude")
	lon := flag.Float64("lon", -100.77873491903246, "Longitude")
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

	content := placeContent{Type: "Feature"}
	content.Geometry.Type = "Point"
	content.Geometry.Coordinates = []float64{*lon, *lat}
	content.Properties = map[string]string{
		"name":   *name,
		"type":   "museum",
		"status": "OPERATIONAL",
		"hours":  "Mo-Fr 08:00-17:00; Sa-Su 10:00-17:00",
	}

	raw, err := json.Marshal(content)
	if err != nil {
		log.Fatalf("Failed to marshal content: %v", err)
	}

	// Тестовое событие подписано одноразовым ключом
	sk := nostr.GeneratePrivateKey()
	pk, _ := nostr.GetPublicKey(sk)
	event := nostr.Event{
		PubKey:    pk,
		CreatedAt: nostr.Now(),
		Kind:      37515,
		Tags: nostr.Tags{
			{"d", *name},
			{"g", geohash.EncodeWithPrecision(*lat, *lon, 8)},
		},
		Content: string(raw),
	}
	if err := event.Sign(sk); err != nil {
		log.Fatalf("Failed to sign event: %v", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// последний id в stream:place:indexed, чтобы не пропустить ответ воркера
	lastID := "0-0"
	if last, err := client.XRevRangeN(ctx, "stream:place:indexed", "+", "-", 1).Result(); err == nil && len(last) > 0 {
		lastID = last[0].ID
	}

	// Публикация в стрим
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:place:events",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published place event %s as message %s\n", event.ID, result)

	// Ждём, пока воркер проиндексирует место
	indexed, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{"stream:place:indexed", lastID},
		Count:   1,
		Block:   10 * time.Second,
	}).Result()
	if err != nil {
		log.Fatalf("No indexed event received: %v", err)
	}
	for _, s := range indexed {
		for _, msg := range s.Messages {
			fmt.Printf("Indexed: %v\n", msg.Values["data"])
		}
	}
}

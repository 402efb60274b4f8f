package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxDevices int = 1000
var readingsPerBatch int = 3
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

func main() {
	deviceIDs := make([]string, maxDevices)
	for i := range maxDevices {
		deviceIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v device IDs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			registerDevice(deviceIDs[i], i)
			fmt.Printf("\rregistered device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rregistered %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			postBatch(deviceIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rposted batches for %v devices: used time=%v seconds, throughput=%v reading/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices*readingsPerBatch*2)/usedTime.Seconds(),
	)
}

func rndFloat64(min, max float64, decimal int) float64 {
	val := min + rnd.Float64()*(max-min)
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(val*multiplier)) / multiplier
}

func registerDevice(deviceID string, index int) {
	payload := map[string]any{
		"device_id": deviceID,
		"name":      fmt.Sprintf("Bench Sensor %v", index),
		"location":  fmt.Sprintf("room_%v", index%20),
		"configuration": map[string]any{
			"thresholds": map[string]any{
				"temperature_high": 30.0,
				"temperature_low":  10.0,
				"humidity_high":    70.0,
				"humidity_low":     30.0,
			},
		},
	}

	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(
		fmt.Sprintf("http://%s/api/sensors/register", httpHostPort),
		"application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		panic(fmt.Sprintf("register failed with status %v", resp.StatusCode))
	}
}

func postBatch(deviceID string) {
	now := time.Now().UTC().Format(time.RFC3339)
	readings := make([]map[string]any, 0, readingsPerBatch)
	for range readingsPerBatch {
		readings = append(readings,
			map[string]any{
				"type": "temperature", "value": rndFloat64(5.0, 40.0, 2),
				"unit": "°C", "timestamp": now,
			},
			map[string]any{
				"type": "humidity", "value": rndFloat64(20.0, 90.0, 2),
				"unit": "%", "timestamp": now,
			},
		)
	}

	payload := map[string]any{
		"device_id": deviceID,
		"readings":  readings,
	}

	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(
		fmt.Sprintf("http://%s/api/sensors/data", httpHostPort),
		"application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		panic(fmt.Sprintf("data post failed with status %v", resp.StatusCode))
	}
}

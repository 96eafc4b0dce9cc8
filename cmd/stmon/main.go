package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/sabertooth/pkg/port/mqtt"
	"github.com/robotalks/sabertooth/pkg/telemetry"
)

var (
	mqttURL    = "mqtt://localhost:1883/sabertooth/"
	filter     = "#"
	outputJSON bool
)

func init() {
	if val := os.Getenv("ST_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&filter, "topic", filter, "Topic filter under the prefix.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print readings in JSON.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub(filter, mqtt.Handler(func(topic string, payload []byte) {
		r, err := telemetry.DecodeReading(payload)
		if err != nil {
			log.Printf("%s: bad reading: %v", topic, err)
			return
		}
		if outputJSON {
			out, err := r.JSON()
			if err != nil {
				log.Printf("%s: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, out)
			return
		}
		log.Printf("%s: %s", topic, r)
	}))
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}
	<-(chan struct{})(nil)
}

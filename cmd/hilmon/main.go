package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/hilval/pkg/framework"
	"github.com/robotalks/hilval/pkg/validate"
	"github.com/robotalks/hilval/pkg/validate/report/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/hilval/"
)

func init() {
	if val := os.Getenv("HIL_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func host(topic string) string {
	return strings.SplitN(topic, "/", 2)[0]
}

func main() {
	flag.Parse()
	defer glog.Flush()

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exit(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		glog.Exit(token.Error())
	}
	defer q.Close()

	q.Sub("+/"+mqtt.RowsTopic, func(topic string, payload []byte) {
		var row validate.Row
		if err := json.Unmarshal(payload, &row); err != nil {
			glog.Warningf("%s: bad row: %v", topic, err)
			return
		}
		glog.Infof("%s: #%d truth %d reference %d device %s: %s",
			host(topic), row.Index, row.Truth, row.Reference, row.Prediction, row.Outcome)
	})
	q.Sub("+/"+mqtt.SummaryTopic, func(topic string, payload []byte) {
		var s validate.Summary
		if err := json.Unmarshal(payload, &s); err != nil {
			glog.Warningf("%s: bad summary: %v", topic, err)
			return
		}
		glog.Infof("%s: %d/%d samples, accuracy %s, fidelity %s, %d timeouts, interrupted=%v",
			host(topic), s.Processed, s.Total,
			validate.FormatRatio(s.Accuracy()), validate.FormatRatio(s.Fidelity()),
			s.Timeouts, s.Interrupted)
	})

	ctx, stop := framework.WithSignals(context.Background())
	defer stop()
	<-ctx.Done()
}

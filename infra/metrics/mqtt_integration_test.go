package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	coremetrics "github.com/kilianp07/timetable/core/metrics"
	"github.com/kilianp07/timetable/infra/mqtt"
)

const mosquittoConf = `listener 1883
allow_anonymous true
persistence false
`

func TestMQTTSinkWithBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{{
			Reader:            strings.NewReader(mosquittoConf),
			ContainerFilePath: "/mosquitto/config/mosquitto.conf",
			FileMode:          0644,
		}},
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	defer func() { _ = cont.Terminate(context.Background()) }()

	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	received := make(chan []byte, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("timetable-subscriber"))
	if tok := sub.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("connect subscriber: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	if tok := sub.Subscribe(mqtt.DefaultTopic, 1, func(_ paho.Client, m paho.Message) {
		received <- m.Payload()
	}); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	cli, err := mqtt.NewPahoClient(mqtt.Config{Broker: broker, QoS: 1}, nil)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	defer cli.Disconnect()
	sink := NewMQTTSink(cli, mqtt.DefaultTopic)
	if err := sink.RecordRun(coremetrics.RunEvent{RunID: "r1", Program: "FYUP", Outcome: coremetrics.OutcomeSucceeded, Time: time.Now()}); err != nil {
		t.Fatalf("record: %v", err)
	}

	select {
	case payload := <-received:
		var msg runMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.RunID != "r1" || msg.Outcome != "succeeded" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no message received")
	}
}

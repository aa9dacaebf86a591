// Command publish-consume is a minimal end-to-end smoke test for the amqp
// package: dial a broker, declare a queue, publish one message, and
// consume it back.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	amqp "github.com/kornstar11/lapin-go"
)

func main() {
	addr := flag.String("addr", "localhost:5672", "broker address")
	user := flag.String("user", "guest", "username")
	pass := flag.String("pass", "guest", "password")
	vhost := flag.String("vhost", "/", "virtual host")
	queue := flag.String("queue", "lapin-go.smoke", "queue to declare and consume from")
	flag.Parse()

	log := funcr.New(func(prefix, args string) { fmt.Println(prefix, args) }, funcr.Options{})
	if err := run(*addr, *user, *pass, *vhost, *queue, log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(addr, user, pass, vhost, queue string, log logr.Logger) error {
	socket, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := amqp.Open(ctx, socket, amqp.Config{
		Credentials: amqp.PlainCredentials{User: user, Password: pass},
		VHost:       vhost,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	defer conn.Close(context.Background(), 200, "bye")

	ch, err := conn.Channel(ctx)
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(ctx, queue, true, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.Publish(ctx, "", queue, false, false, nil, []byte("hello from lapin-go")); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	consumer, err := ch.Consume(ctx, queue, "", false, true, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	select {
	case d, ok := <-consumer.Deliveries:
		if !ok {
			return fmt.Errorf("consumer cancelled before a delivery arrived")
		}
		log.Info("received delivery", "body", string(d.Body))
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

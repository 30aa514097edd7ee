package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/port"
	"github.com/gsbenevides2/hassbridge/internal/mqtt"
	"github.com/gsbenevides2/hassbridge/internal/util"

	pmqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

const refreshJobName = "discovery-refresh"

// Publisher announces components through retained config messages and
// routes inbound commands to the bound handlers. Every announced component
// is remembered and announced again when the hub comes back online.
type Publisher struct {
	client         *mqtt.MQTTClient
	logger         *zap.Logger
	commandTimeout time.Duration
	refresh        time.Duration

	mu        sync.Mutex
	announced map[string]domain.Component
	topics    []string
	scheduler quartz.Scheduler
}

func NewPublisher(client *mqtt.MQTTClient, cfg config.MQTTConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:         client,
		logger:         util.ComponentLogger("discovery", logger),
		commandTimeout: cfg.CommandTimeout(),
		refresh:        time.Duration(cfg.DiscoveryRefreshMinutes) * time.Minute,
		announced:      map[string]domain.Component{},
	}
}

// Start listens to the hub status topic and schedules the periodic
// refresh. The client must already be connected or connect later.
func (p *Publisher) Start(ctx context.Context) error {
	p.client.OnConnect(func() {
		if err := p.Reannounce(context.Background()); err != nil {
			p.logger.Warn("discovery@reconnect reannounce failed", zap.Error(err))
		}
	})
	p.track(p.client.HAStatusTopic())
	err := p.client.Subscribe(ctx, p.client.HAStatusTopic(), 1, func(_ pmqtt.Client, msg pmqtt.Message) {
		if string(msg.Payload()) != mqtt.MQTT_PAYLOAD_ONLINE {
			return
		}
		p.logger.Debug("discovery@birth hub online, reannouncing")
		go func() {
			if err := p.Reannounce(context.Background()); err != nil {
				p.logger.Warn("discovery@birth reannounce failed", zap.Error(err))
			}
		}()
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDiscoveryPublish, err)
	}
	if p.refresh > 0 {
		return p.scheduleRefresh(ctx)
	}
	return nil
}

func (p *Publisher) scheduleRefresh(ctx context.Context) error {
	sched := quartz.NewStdScheduler()
	refreshJob := job.NewFunctionJob(func(ctx context.Context) (int, error) {
		return p.announcedCount(), p.Reannounce(ctx)
	})
	sched.Start(ctx)
	err := sched.ScheduleJob(quartz.NewJobDetail(refreshJob, quartz.NewJobKey(refreshJobName)),
		quartz.NewSimpleTrigger(p.refresh))
	if err != nil {
		sched.Stop()
		return err
	}
	p.mu.Lock()
	p.scheduler = sched
	p.mu.Unlock()
	return nil
}

// Stop halts the refresh job and drops the publisher's subscriptions; the
// connection itself belongs to the caller.
func (p *Publisher) Stop() {
	p.mu.Lock()
	sched := p.scheduler
	p.scheduler = nil
	topics := p.topics
	p.topics = nil
	p.mu.Unlock()
	if sched != nil {
		sched.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, topic := range topics {
		if err := p.client.Unsubscribe(ctx, topic); err != nil {
			p.logger.Warn("discovery@stop could not unsubscribe", zap.String("topic", topic), zap.Error(err))
		}
	}
}

func (p *Publisher) track(topic string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !slices.Contains(p.topics, topic) {
		p.topics = append(p.topics, topic)
	}
}

// Publish sends the retained config message for c. Publishing the same
// component twice sends the same bytes. c is remembered even when the send
// fails, so the next reconnect or hub birth announces it.
func (p *Publisher) Publish(ctx context.Context, c domain.Component) error {
	topic := p.client.ConfigTopic(string(c.Kind), c.ObjectId)
	payload, err := mqtt.ComponentToHADiscoveryMessage(p.client, c).Marshal()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDiscoveryPublish, topic, err)
	}
	p.mu.Lock()
	p.announced[topic] = c
	p.mu.Unlock()
	err = p.client.Publish(ctx, topic, 1, true, payload)
	observe("config", err)
	if err != nil {
		p.logger.Error("discovery@publish could not publish config", zap.String("topic", topic), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", domain.ErrDiscoveryPublish, topic, err)
	}
	p.logger.Debug("discovery@publish config", zap.String("topic", topic))
	return nil
}

// Bind subscribes to the set topic of c and announces it as a command
// component. The handler result is acknowledged on the state topic. The
// subscription survives a failed announce and is restored on reconnect.
func (p *Publisher) Bind(ctx context.Context, c domain.Component, handler port.CommandHandler) error {
	c.Command = true
	kind := string(c.Kind)
	commandTopic := p.client.CommandTopic(kind, c.ObjectId)
	stateTopic := p.client.StateTopic(kind, c.ObjectId)

	err := p.client.Subscribe(ctx, commandTopic, 1, func(_ pmqtt.Client, msg pmqtt.Message) {
		cmd, err := p.client.ParseMQTTCommand(msg)
		if err != nil {
			p.logger.Warn("discovery@command unparsable", zap.Error(err))
			return
		}
		p.logger.Debug("discovery@command received", zap.String("object_id", cmd.ObjectId), zap.String("payload", cmd.Payload))
		// paho callbacks must not wait on tokens
		go p.runCommand(stateTopic, cmd.Payload, handler)
	})
	p.track(commandTopic)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrDiscoveryPublish, commandTopic, err)
	}
	return p.Publish(ctx, c)
}

func (p *Publisher) runCommand(stateTopic string, payload string, handler port.CommandHandler) {
	ctx, cancel := context.WithTimeout(context.Background(), p.commandTimeout)
	defer cancel()

	ack, err := util.NewTask(func() (string, error) {
		return handler(ctx, payload)
	}).WithTimeout(p.commandTimeout).OnError(func(err error) {
		observe("command", err)
		p.logger.Error("discovery@command handler failed", zap.String("topic", stateTopic), zap.Error(err))
	}).Run()
	if err != nil {
		return
	}
	observe("command", nil)
	if ack == "" {
		return
	}
	err = p.client.Publish(ctx, stateTopic, 1, false, ack)
	observe("ack", err)
	if err != nil {
		p.logger.Error("discovery@command could not publish ack", zap.String("topic", stateTopic), zap.Error(err))
	}
}

// Reannounce republishes every component announced so far.
func (p *Publisher) Reannounce(ctx context.Context) error {
	p.mu.Lock()
	topics := make([]string, 0, len(p.announced))
	for topic := range p.announced {
		topics = append(topics, topic)
	}
	components := make([]domain.Component, 0, len(topics))
	sort.Strings(topics)
	for _, topic := range topics {
		components = append(components, p.announced[topic])
	}
	p.mu.Unlock()

	var errs []error
	for _, c := range components {
		if err := p.Publish(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Publisher) announcedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.announced)
}

// NopPublisher is used when discovery is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Component) error { return nil }

func (NopPublisher) Bind(context.Context, domain.Component, port.CommandHandler) error { return nil }

var _ port.DiscoveryPublisher = (*Publisher)(nil)
var _ port.DiscoveryPublisher = NopPublisher{}

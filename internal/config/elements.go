package config

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/cooplan/amqp-api/internal/domain"
)

// DeclareConfig mirrors an AMQP queue.declare call's options and arguments.
type DeclareConfig struct {
	Durable    bool                   `json:"durable"`
	AutoDelete bool                   `json:"auto_delete"`
	Exclusive  bool                   `json:"exclusive"`
	NoWait     bool                   `json:"no_wait"`
	Arguments  map[string]interface{} `json:"arguments"`
}

// QueueConfig wraps the declare options for one queue.
type QueueConfig struct {
	Declare DeclareConfig `json:"declare"`
}

// QoSConfig mirrors an AMQP basic.qos call.
type QoSConfig struct {
	PrefetchCount int  `json:"prefetch_count" validate:"gte=0"`
	Global        bool `json:"global"`
}

// ConsumeConfig mirrors an AMQP basic.consume call's options and arguments.
type ConsumeConfig struct {
	NoAck     bool                   `json:"no_ack"`
	Exclusive bool                   `json:"exclusive"`
	NoLocal   bool                   `json:"no_local"`
	NoWait    bool                   `json:"no_wait"`
	Arguments map[string]interface{} `json:"arguments"`
}

// AcknowledgeConfig mirrors an AMQP basic.ack call's options.
type AcknowledgeConfig struct {
	Multiple bool `json:"multiple"`
}

// RejectConfig mirrors an AMQP basic.reject call's options.
type RejectConfig struct {
	Requeue bool `json:"requeue"`
}

// QueueConsumerConfig bundles everything an IngressDispatcher needs to
// declare its queue, apply QoS, and consume/ack/reject deliveries.
type QueueConsumerConfig struct {
	Queue       QueueConfig       `json:"queue"`
	QoS         QoSConfig         `json:"qos"`
	Consume     ConsumeConfig     `json:"consume"`
	Acknowledge AcknowledgeConfig `json:"acknowledge"`
	Reject      RejectConfig      `json:"reject"`
}

// InputElementConfig is one entry of the config file's "input" array (§6).
type InputElementConfig struct {
	Name                  string              `json:"name" validate:"required"`
	QueueConsumer         QueueConsumerConfig `json:"queue_consumer"`
	MaxConcurrentRequests int                 `json:"max_concurrent_requests" validate:"gt=0"`
}

// PublishPropertiesConfig mirrors the AMQP message properties attached to a publish.
type PublishPropertiesConfig struct {
	ContentType string `json:"content_type"`
}

// PublishConfig mirrors an AMQP basic.publish call.
type PublishConfig struct {
	Exchange   string                  `json:"exchange"`
	Mandatory  bool                    `json:"mandatory"`
	Immediate  bool                    `json:"immediate"`
	Properties PublishPropertiesConfig `json:"properties"`
}

// OutputQueueConfig is the queue declaration for one output element.
type OutputQueueConfig struct {
	Name    string        `json:"name" validate:"required"`
	Declare DeclareConfig `json:"declare"`
}

// OutputElementConfig is one entry of the config file's "output" array (§6).
type OutputElementConfig struct {
	Name    string            `json:"name" validate:"required"`
	Queue   OutputQueueConfig `json:"queue"`
	Publish PublishConfig     `json:"publish"`
}

// ElementsFile is the JSON document described in spec §6: two top-level
// arrays naming every input and output element the host service registers.
type ElementsFile struct {
	Input  []InputElementConfig  `json:"input" validate:"dive"`
	Output []OutputElementConfig `json:"output" validate:"dive"`
}

var (
	elementsValidator     *validator.Validate
	elementsValidatorOnce sync.Once
)

func getElementsValidator() *validator.Validate {
	elementsValidatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		elementsValidator = v
	})
	return elementsValidator
}

// LoadElementsFile reads and validates the element declarations from path.
// Any structural or validation failure is an AutoConfigFailure per spec §7.
func LoadElementsFile(path string) (*ElementsFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewErrorWithCause(domain.KindAutoConfigFailure,
			fmt.Sprintf("config: read elements file %q", path), err)
	}

	var doc ElementsFile
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.NewErrorWithCause(domain.KindAutoConfigFailure,
			fmt.Sprintf("config: parse elements file %q", path), err)
	}

	if err := getElementsValidator().Struct(&doc); err != nil {
		return nil, domain.NewErrorWithCause(domain.KindAutoConfigFailure,
			fmt.Sprintf("config: validate elements file %q", path), err)
	}

	seen := make(map[string]struct{}, len(doc.Input)+len(doc.Output))
	for _, in := range doc.Input {
		if _, dup := seen[in.Name]; dup {
			return nil, domain.NewError(domain.KindAutoConfigFailure,
				fmt.Sprintf("config: duplicate element name %q", in.Name))
		}
		seen[in.Name] = struct{}{}
	}
	for _, out := range doc.Output {
		if _, dup := seen[out.Name]; dup {
			return nil, domain.NewError(domain.KindAutoConfigFailure,
				fmt.Sprintf("config: duplicate element name %q", out.Name))
		}
		seen[out.Name] = struct{}{}
	}

	return &doc, nil
}

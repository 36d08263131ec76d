package eventbus

import (
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/tempora-uz/tempora/pkg/serrors"
)

var ErrNoSubscribers = serrors.NewError("EVENTBUS_NO_SUBSCRIBERS", "no matching subscribers", "")

// EventBus dispatches published values to every subscribed handler whose
// function signature matches the published arguments.
type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	SubscribersCount() int
}

type publisherImpl struct {
	log         *logrus.Logger
	subscribers []reflect.Value
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisherImpl{log: log}
}

func matchSignature(handler reflect.Value, args []interface{}) bool {
	t := handler.Type()
	if t.Kind() != reflect.Func || t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		paramType := t.In(i)
		if arg == nil {
			if paramType.Kind() != reflect.Interface && paramType.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		argType := reflect.TypeOf(arg)
		if paramType.Kind() == reflect.Interface {
			if !argType.Implements(paramType) {
				return false
			}
			continue
		}
		if !argType.AssignableTo(paramType) {
			return false
		}
	}
	return true
}

func (p *publisherImpl) Publish(args ...interface{}) {
	values := make([]reflect.Value, len(args))
	for i, arg := range args {
		values[i] = reflect.ValueOf(arg)
	}
	dispatched := 0
	for _, handler := range p.subscribers {
		if !matchSignature(handler, args) {
			continue
		}
		handler.Call(values)
		dispatched++
	}
	if dispatched == 0 && p.log != nil {
		p.log.WithField("args", len(args)).Debug(ErrNoSubscribers.Message)
	}
}

func (p *publisherImpl) Subscribe(handler interface{}) {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		panic("eventbus: subscriber must be a function")
	}
	p.subscribers = append(p.subscribers, v)
}

func (p *publisherImpl) Unsubscribe(handler interface{}) {
	target := reflect.ValueOf(handler).Pointer()
	kept := p.subscribers[:0]
	for _, s := range p.subscribers {
		if s.Pointer() != target {
			kept = append(kept, s)
		}
	}
	p.subscribers = kept
}

func (p *publisherImpl) SubscribersCount() int {
	return len(p.subscribers)
}

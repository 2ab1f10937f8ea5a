package party

import (
	"time"

	kitmetrics "github.com/go-kit/kit/metrics"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pureorigins/partyd/platform/metrics"
)

const serviceName = "party"

type instrumentService struct {
	component string
	errCount  kitmetrics.Counter
	opCount   kitmetrics.Counter
	opLatency *prometheus.HistogramVec
	next      Service
	store     string
}

// InstrumentServiceMiddleware observes key aspects of Service operations and
// exposes Prometheus metrics.
func InstrumentServiceMiddleware(
	component, store string,
	errCount kitmetrics.Counter,
	opCount kitmetrics.Counter,
	opLatency *prometheus.HistogramVec,
) ServiceMiddleware {
	return func(next Service) Service {
		return &instrumentService{
			component: component,
			errCount:  errCount,
			opCount:   opCount,
			opLatency: opLatency,
			next:      next,
			store:     store,
		}
	}
}

func (s *instrumentService) Accept(
	senderID, ownerID uint64,
) (res *AcceptResult, err error) {
	defer func(begin time.Time) {
		s.track("Accept", begin, err)
	}(time.Now())

	return s.next.Accept(senderID, ownerID)
}

func (s *instrumentService) CancelInvite(
	partyID, targetID uint64,
) (res *CancelResult, err error) {
	defer func(begin time.Time) {
		s.track("CancelInvite", begin, err)
	}(time.Now())

	return s.next.CancelInvite(partyID, targetID)
}

func (s *instrumentService) FromInvitedUser(userID uint64) (list List, err error) {
	defer func(begin time.Time) {
		s.track("FromInvitedUser", begin, err)
	}(time.Now())

	return s.next.FromInvitedUser(userID)
}

func (s *instrumentService) FromMember(userID uint64) (output *Party, err error) {
	defer func(begin time.Time) {
		s.track("FromMember", begin, err)
	}(time.Now())

	return s.next.FromMember(userID)
}

func (s *instrumentService) Invite(
	senderID, targetID uint64,
) (res *InviteResult, err error) {
	defer func(begin time.Time) {
		s.track("Invite", begin, err)
	}(time.Now())

	return s.next.Invite(senderID, targetID)
}

func (s *instrumentService) Kick(
	senderID, targetID uint64,
) (res *KickResult, err error) {
	defer func(begin time.Time) {
		s.track("Kick", begin, err)
	}(time.Now())

	return s.next.Kick(senderID, targetID)
}

func (s *instrumentService) Leave(userID uint64) (res *LeaveResult, err error) {
	defer func(begin time.Time) {
		s.track("Leave", begin, err)
	}(time.Now())

	return s.next.Leave(userID)
}

func (s *instrumentService) Left(userID uint64) (res *LeaveResult, err error) {
	defer func(begin time.Time) {
		s.track("Left", begin, err)
	}(time.Now())

	return s.next.Left(userID)
}

func (s *instrumentService) track(
	method string,
	begin time.Time,
	err error,
) {
	if err != nil {
		s.errCount.With(
			metrics.FieldComponent, s.component,
			metrics.FieldMethod, method,
			metrics.FieldService, serviceName,
			metrics.FieldStore, s.store,
		).Add(1)
	}

	s.opCount.With(
		metrics.FieldComponent, s.component,
		metrics.FieldMethod, method,
		metrics.FieldService, serviceName,
		metrics.FieldStore, s.store,
	).Add(1)

	s.opLatency.With(prometheus.Labels{
		metrics.FieldComponent: s.component,
		metrics.FieldMethod:    method,
		metrics.FieldService:   serviceName,
		metrics.FieldStore:     s.store,
	}).Observe(time.Since(begin).Seconds())
}

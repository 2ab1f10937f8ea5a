package party

import (
	"time"

	"github.com/go-kit/kit/log"
)

type logService struct {
	logger log.Logger
	next   Service
}

// LogMiddleware given a Logger wraps the next Service with logging capabilities.
func LogMiddleware(logger log.Logger, store string) ServiceMiddleware {
	return func(next Service) Service {
		logger = log.With(
			logger,
			"service", serviceName,
			"store", store,
		)

		return &logService{logger: logger, next: next}
	}
}

func (s *logService) Accept(
	senderID, ownerID uint64,
) (res *AcceptResult, err error) {
	defer func(begin time.Time) {
		ps := []interface{}{
			"duration_ns", time.Since(begin).Nanoseconds(),
			"method", "Accept",
			"owner_id", ownerID,
			"sender_id", senderID,
		}

		if err != nil {
			ps = append(ps, "err", err)
		}

		_ = s.logger.Log(ps...)
	}(time.Now())

	return s.next.Accept(senderID, ownerID)
}

func (s *logService) CancelInvite(
	partyID, targetID uint64,
) (res *CancelResult, err error) {
	defer func(begin time.Time) {
		ps := []interface{}{
			"duration_ns", time.Since(begin).Nanoseconds(),
			"method", "CancelInvite",
			"party_id", partyID,
			"target_id", targetID,
		}

		if err != nil {
			ps = append(ps, "err", err)
		}

		_ = s.logger.Log(ps...)
	}(time.Now())

	return s.next.CancelInvite(partyID, targetID)
}

func (s *logService) FromInvitedUser(userID uint64) (list List, err error) {
	defer func(begin time.Time) {
		ps := []interface{}{
			"duration_ns", time.Since(begin).Nanoseconds(),
			"method", "FromInvitedUser",
			"party_len", len(list),
			"user_id", userID,
		}

		if err != nil {
			ps = append(ps, "err", err)
		}

		_ = s.logger.Log(ps...)
	}(time.Now())

	return s.next.FromInvitedUser(userID)
}

func (s *logService) FromMember(userID uint64) (output *Party, err error) {
	defer func(begin time.Time) {
		ps := []interface{}{
			"duration_ns", time.Since(begin).Nanoseconds(),
			"method", "FromMember",
			"user_id", userID,
		}

		if err != nil {
			ps = append(ps, "err", err)
		}

		_ = s.logger.Log(ps...)
	}(time.Now())

	return s.next.FromMember(userID)
}

func (s *logService) Invite(
	senderID, targetID uint64,
) (res *InviteResult, err error) {
	defer func(begin time.Time) {
		ps := []interface{}{
			"duration_ns", time.Since(begin).Nanoseconds(),
			"method", "Invite",
			"sender_id", senderID,
			"target_id", targetID,
		}

		if res != nil {
			ps = append(ps, "party_created", res.Created)
		}

		if err != nil {
			ps = append(ps, "err", err)
		}

		_ = s.logger.Log(ps...)
	}(time.Now())

	return s.next.Invite(senderID, targetID)
}

func (s *logService) Kick(
	senderID, targetID uint64,
) (res *KickResult, err error) {
	defer func(begin time.Time) {
		ps := []interface{}{
			"duration_ns", time.Since(begin).Nanoseconds(),
			"method", "Kick",
			"sender_id", senderID,
			"target_id", targetID,
		}

		if err != nil {
			ps = append(ps, "err", err)
		}

		_ = s.logger.Log(ps...)
	}(time.Now())

	return s.next.Kick(senderID, targetID)
}

func (s *logService) Leave(userID uint64) (res *LeaveResult, err error) {
	defer func(begin time.Time) {
		ps := []interface{}{
			"duration_ns", time.Since(begin).Nanoseconds(),
			"method", "Leave",
			"user_id", userID,
		}

		if res != nil {
			ps = append(ps, "party_extinct", res.Extinct, "was_owner", res.WasOwner)
		}

		if err != nil {
			ps = append(ps, "err", err)
		}

		_ = s.logger.Log(ps...)
	}(time.Now())

	return s.next.Leave(userID)
}

func (s *logService) Left(userID uint64) (res *LeaveResult, err error) {
	defer func(begin time.Time) {
		ps := []interface{}{
			"duration_ns", time.Since(begin).Nanoseconds(),
			"method", "Left",
			"user_id", userID,
		}

		if res != nil {
			ps = append(ps, "party_extinct", res.Extinct, "withdrawn_len", len(res.Withdrawn))
		}

		if err != nil {
			ps = append(ps, "err", err)
		}

		_ = s.logger.Log(ps...)
	}(time.Now())

	return s.next.Left(userID)
}

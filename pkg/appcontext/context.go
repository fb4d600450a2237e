package appcontext

import (
	"context"

	"github.com/sirupsen/logrus"
)

type contextId int

const (
	jobNameKeyId contextId = iota
	passIdKeyId
	workerIdKeyId
	requestIdKeyId
)

func WithRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKeyId, requestId)
}

func WithJobName(ctx context.Context, job string) context.Context {
	return context.WithValue(ctx, jobNameKeyId, job)
}

func WithPassId(ctx context.Context, passId string) context.Context {
	return context.WithValue(ctx, passIdKeyId, passId)
}

func WithWorkerId(ctx context.Context, workerId int) context.Context {
	return context.WithValue(ctx, workerIdKeyId, workerId)
}

func JobName(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	name, _ := ctx.Value(jobNameKeyId).(string)
	return name
}

func LoggerFromContext(logger logrus.FieldLogger, ctx context.Context) logrus.FieldLogger {
	if ctx == nil {
		return logger
	}

	result := logger

	if ctxJobName, ok := ctx.Value(jobNameKeyId).(string); ok && ctxJobName != "" {
		result = result.WithField("job", ctxJobName)
	}

	if ctxWorkerId, ok := ctx.Value(workerIdKeyId).(int); ok {
		result = result.WithField("worker", ctxWorkerId)
	}

	if ctxPassId, ok := ctx.Value(passIdKeyId).(string); ok && ctxPassId != "" {
		result = result.WithField("pass_id", ctxPassId)
	}

	if ctxRequestId, ok := ctx.Value(requestIdKeyId).(string); ok && ctxRequestId != "" {
		result = result.WithField("request_id", ctxRequestId)
	}

	return result
}

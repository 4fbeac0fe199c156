package relay

import (
	"context"
	"encoding/base64"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// APIGatewayHandler adapts a Relay to an API Gateway proxy integration.
// The returned error is always nil: failures are carried in the response.
func APIGatewayHandler(r *Relay) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		rid := req.RequestContext.RequestID
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx = WithRequestID(ctx, rid)

		body := []byte(req.Body)
		var bodyErr error
		if req.IsBase64Encoded {
			body, bodyErr = base64.StdEncoding.DecodeString(req.Body)
		}

		return toProxyResponse(r.handle(ctx, body, bodyErr)), nil
	}
}

func toProxyResponse(resp Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(resp.Body),
	}
}

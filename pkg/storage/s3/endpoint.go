package s3

import (
	"context"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyendpoints "github.com/aws/smithy-go/endpoints"
)

// cnameResolver sends every request to a custom domain that is already bound
// to the bucket, so neither a bucket host label nor a bucket path segment is
// added.
type cnameResolver struct {
	endpoint url.URL
}

func (r cnameResolver) ResolveEndpoint(_ context.Context, _ s3.EndpointParameters) (smithyendpoints.Endpoint, error) {
	return smithyendpoints.Endpoint{URI: r.endpoint}, nil
}

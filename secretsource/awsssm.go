package secretsource

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ssm"
)

// awsSSMSource reads secrets from AWS Systems Manager Parameter Store,
// namespaced under cfg.Path (e.g. "/xgr-solver/prod").
type awsSSMSource struct {
	client *ssm.SSM
	prefix string
}

func newAWSSSMSource(cfg Config) (Source, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("secretsource: awsssm backend requires Region")
	}

	sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
	if err != nil {
		return nil, fmt.Errorf("secretsource: aws session: %w", err)
	}

	return &awsSSMSource{client: ssm.New(sess), prefix: cfg.Path}, nil
}

func (a *awsSSMSource) GetSecret(name string) ([]byte, error) {
	out, err := a.client.GetParameter(&ssm.GetParameterInput{
		Name:           aws.String(a.prefix + "/" + name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("secretsource: awsssm get %s/%s: %w", a.prefix, name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("secretsource: awsssm: empty parameter %s/%s", a.prefix, name)
	}
	return []byte(*out.Parameter.Value), nil
}

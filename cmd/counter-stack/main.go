package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsdynamodb"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/weegigs/wee-ledger-go/stores/ds"
)

type CounterStackProps struct {
	awscdk.StackProps
	// Asset is the directory holding the linux build of cmd/counter-lambda.
	Asset string
}

func NewCounterStack(scope constructs.Construct, id string, props *CounterStackProps) awscdk.Stack {
	var sprops awscdk.StackProps
	if props != nil {
		sprops = props.StackProps
	}
	stack := awscdk.NewStack(scope, &id, &sprops)

	table := awsdynamodb.NewTable(stack, jsii.String("State"), &awsdynamodb.TableProps{
		PartitionKey:  &awsdynamodb.Attribute{Name: jsii.String("pk"), Type: awsdynamodb.AttributeType_STRING},
		SortKey:       &awsdynamodb.Attribute{Name: jsii.String("sk"), Type: awsdynamodb.AttributeType_STRING},
		BillingMode:   awsdynamodb.BillingMode_PAY_PER_REQUEST,
		RemovalPolicy: awscdk.RemovalPolicy_RETAIN,
	})

	function := awslambda.NewFunction(stack, jsii.String("Counter"), &awslambda.FunctionProps{
		Runtime:    awslambda.Runtime_GO_1_X(),
		Handler:    jsii.String("counter-lambda"),
		Code:       awslambda.Code_FromAsset(jsii.String(props.Asset), nil),
		MemorySize: jsii.Number(256),
		Timeout:    awscdk.Duration_Seconds(jsii.Number(10)),
		Environment: &map[string]*string{
			ds.StateTableEnv: table.TableName(),
		},
	})

	table.GrantReadWriteData(function)

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("CounterApi"), &awsapigateway.LambdaRestApiProps{
		Handler: function,
	})

	awscdk.NewCfnOutput(stack, jsii.String("Endpoint"), &awscdk.CfnOutputProps{Value: api.Url()})

	return stack
}

func main() {
	app := awscdk.NewApp(nil)

	asset := os.Getenv("COUNTER_LAMBDA_ASSET")
	if asset == "" {
		asset = "dist/counter-lambda"
	}

	NewCounterStack(app, "WeeLedgerCounter", &CounterStackProps{
		StackProps: awscdk.StackProps{Env: env()},
		Asset:      asset,
	})

	app.Synth(nil)
}

func env() *awscdk.Environment {
	account := os.Getenv("CDK_DEFAULT_ACCOUNT")
	region := os.Getenv("CDK_DEFAULT_REGION")
	if account == "" || region == "" {
		return nil
	}

	return &awscdk.Environment{
		Account: jsii.String(account),
		Region:  jsii.String(region),
	}
}

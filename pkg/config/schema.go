package config

// Schema is the JSON schema for validating configuration files
const Schema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "properties": {
        "accessKeyId": {
            "type": "string",
            "minLength": 1
        },
        "accessKeySecret": {
            "type": "string",
            "minLength": 1
        },
        "bucket": {
            "type": "string",
            "minLength": 1,
            "description": "Bucket, container or base directory depending on the provider"
        },
        "region": {
            "type": "string",
            "minLength": 1
        },
        "endpoint": {
            "type": "string"
        },
        "internal": {
            "type": "boolean"
        },
        "cname": {
            "type": "boolean"
        },
        "isRequestPay": {
            "type": "boolean"
        },
        "secure": {
            "type": "boolean"
        },
        "timeout": {
            "type": "integer",
            "minimum": 0,
            "description": "Per-request timeout in milliseconds"
        },
        "exclude": {
            "type": "string",
            "description": "Regular expression, optionally written as /expr/flags"
        },
        "include": {
            "type": "string",
            "description": "Regular expression, optionally written as /expr/flags"
        },
        "isSilent": {
            "type": "boolean"
        },
        "provider": {
            "type": "string",
            "enum": ["oss", "s3", "b2", "sftp", "gcs", "azblob", "local"]
        },
        "pathStyle": {
            "type": "boolean"
        },
        "concurrency": {
            "type": "integer",
            "minimum": 0
        },
        "retries": {
            "type": "integer",
            "minimum": 0
        },
        "logLevel": {
            "type": "string",
            "enum": ["debug", "info", "warn", "error"]
        },
        "logFormat": {
            "type": "string",
            "enum": ["json", "console"]
        }
    },
    "required": ["accessKeyId", "accessKeySecret", "bucket", "region"]
}`

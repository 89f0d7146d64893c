package config

const contextTemplateYAML = `# Context template for soldo.
# Add it with: soldo config add --payload context.yaml
name: my-context

# demo (https://api-demo.soldocloud.net) or live (https://api.soldo.com).
environment: demo

# Optional explicit endpoints; base-url overrides the environment.
# base-url: https://api-demo.soldocloud.net
# token-url: https://api-demo.soldocloud.net/oauth/authorize

# Business API version, defaults to 2.
# api-version: "2"

# OAuth2 client credentials. SOLDO_CLIENT_ID and SOLDO_CLIENT_SECRET
# override them at runtime.
credentials:
  client-id: change-me
  client-secret: change-me

# Optional outgoing request rate per second; 0 disables the limiter.
# rate-limit: 5

# Optional webhook verification. SOLDO_WEBHOOK_SECRET overrides the secret.
# webhook:
#   secret: change-me
#   fingerprint-order: id,token

# Optional logging: level is one of error, warning, info or debug.
# log:
#   enabled: true
#   level: info
#   file: /var/log/soldo.log
`

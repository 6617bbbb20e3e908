// Package environment names the deployment environment (development,
// staging, production) and carries it through request contexts.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	r.Use(environment.Middleware(env))
//
// Handlers call FromContext to decide, for example, whether internal error
// details may be shown. A context without an environment is treated as
// Production.
package environment

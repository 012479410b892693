package main

import "taskmatrix/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustInitStorage()

	app.MustStartScheduler()
	defer app.StopScheduler()

	app.MustListenAndServeHTTP()
}

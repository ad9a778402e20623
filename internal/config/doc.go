// Package config provides configuration parsing for todoview.
//
// The configuration is stored in todoview.json in the working directory.
// Every field is optional; missing fields take the defaults shown here.
// Environment variables are not consulted.
//
// # Configuration File Structure
//
//	{
//	  "remote": {
//	    "baseURL": "https://icp-test.fly.dev",
//	    "toggleMethod": "GET",
//	    "timeout": "10s"
//	  },
//	  "source": {
//	    "kind": "http",
//	    "s3": {"bucket": "todos", "key": "list.json", "region": "us-east-1"}
//	  },
//	  "toggle": {"policy": "reject"},
//	  "serve": {"host": "localhost", "port": 3000, "autoRefresh": "10s"},
//	  "backend": {"host": "localhost", "port": 8081, "database": "todoview.db", "seed": true},
//	  "log": {"level": "info", "format": "text"}
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.ServeAddress())
package config

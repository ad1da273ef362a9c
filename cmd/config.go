package main

import "time"

type Config struct {
	BadgerFilepath     string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel           string        `env:"LOG_LEVEL,required=true"`
	SinkTimeout        time.Duration `env:"SINK_TIMEOUT,required=true"`
	SinkBufferSize     int           `env:"SINK_BUFFER_SIZE,default=128"`
	TokenSecret        string        `env:"TOKEN_SECRET,required=true"`
	CensoredWords      []string      `env:"CENSORED_WORDS"`
	CensoredCharString string        `env:"CENSORED_CHARACTER,default=*"`
	ServerPort         int           `env:"SERVER_PORT,default=8080"`
}

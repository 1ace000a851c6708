package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from the process command line.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-driver database driver (sqlite3 or pgx)
//	-c/-config json file path with configs
//	-challenge-sign-key challenge token signing key
//	-enrollment-seal-key hex AES key sealing pending enrollments
//	-session-ttl session lifetime (e.g., "720h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-openrouter-key OpenRouter API key
//	-transcriber-url transcription endpoint
//	-workers number of summarization workers
func ParseFlags() *StructuredConfig {
	cfg, _ := parseFlags(flag.CommandLine, os.Args[1:])
	return cfg
}

func parseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var databaseDSN, databaseDriver string
	var jsonConfigPath string
	var challengeSignKey, enrollmentSealKey string
	var sessionTTL, requestTimeout time.Duration
	var openRouterKey, transcriberURL string
	var summaryWorkers int

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&databaseDriver, "driver", "", "Database driver (sqlite3 or pgx)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&challengeSignKey, "challenge-sign-key", "", "Challenge token signing key")
	fs.StringVar(&enrollmentSealKey, "enrollment-seal-key", "", "Hex AES-256 key sealing pending enrollments")
	fs.DurationVar(&sessionTTL, "session-ttl", 0, "Session lifetime (e.g., 720h)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&openRouterKey, "openrouter-key", "", "OpenRouter API key")
	fs.StringVar(&transcriberURL, "transcriber-url", "", "Transcription service URL")
	fs.IntVar(&summaryWorkers, "workers", 0, "Number of summarization workers")

	err := fs.Parse(args)

	return &StructuredConfig{
		App: App{
			ChallengeSignKey:  challengeSignKey,
			EnrollmentSealKey: enrollmentSealKey,
		},
		Auth: Auth{
			SessionTTL: sessionTTL,
		},
		Storage: Storage{
			DB: DB{
				Driver: databaseDriver,
				DSN:    databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		AI: AI{
			OpenRouterAPIKey: openRouterKey,
			TranscriberURL:   transcriberURL,
		},
		Workers: Workers{
			SummaryWorkers: summaryWorkers,
		},
		JSONFilePath: jsonConfigPath,
	}, err
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

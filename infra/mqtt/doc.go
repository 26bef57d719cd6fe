// Package mqtt publishes run summaries to an MQTT broker with Eclipse Paho.
// Importing the package registers the "mqtt" run sink.
package mqtt

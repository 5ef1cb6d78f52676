package config

import "time"

// DefaultContractAddress is the BasicNft deployment the tool talks to unless
// contract_address is set. It is the first contract address of the default
// Anvil/Hardhat deployer, so a fresh local node gets it on first deploy.
const DefaultContractAddress = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

// GasLimitContractCall is used when the node cannot estimate a write call.
const GasLimitContractCall = uint64(200_000)

// DialTimeout bounds the handshake with a wallet endpoint during detection.
const DialTimeout = 10 * time.Second
